package redgifs

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver binds a client to one session token and memoizes asset lookups,
// so a post URL repeated across feeds costs a single API call.
type Resolver struct {
	client *Client
	token  string
	cache  *lru.Cache[string, string]
}

func NewResolver(c *Client, token string) *Resolver {
	cache, _ := lru.New[string, string](256)
	return &Resolver{client: c, token: token, cache: cache}
}

// ResolveVideo implements domain.VideoResolver.
func (r *Resolver) ResolveVideo(ctx context.Context, assetID string) (string, error) {
	if url, ok := r.cache.Get(assetID); ok {
		return url, nil
	}

	url, err := r.client.GetVideo(ctx, assetID, r.token)
	if err != nil {
		return "", err
	}
	r.cache.Add(assetID, url)
	return url, nil
}
