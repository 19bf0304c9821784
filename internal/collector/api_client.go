package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// APIClient lists posts through the authenticated reddit API. The library's
// post type carries no preview/native-video/gallery structures, so posts from
// this mode only resolve through the URL-pattern branches of the classifier.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API rate limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchPage(ctx context.Context, sub string, limit int, after string) ([]domain.Post, string, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	posts, resp, err := ac.client.Subreddit.NewPosts(ctx, sub, &reddit.ListOptions{Limit: limit, After: after})
	if err != nil {
		return nil, "", fmt.Errorf("authenticated api error: %w", err)
	}

	result := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		result = append(result, domain.Post{
			ID:         p.ID,
			Title:      p.Title,
			Subreddit:  p.SubredditName,
			Author:     p.Author,
			URL:        p.URL,
			Score:      p.Score,
			CreatedUTC: float64(p.Created.Time.Unix()),
		})
	}
	return result, resp.After, nil
}
