package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.reddit.com"

// PublicClient reads the anonymous listing endpoints. It decodes the full
// media payload (hint, preview, native video, gallery metadata), so every
// classification branch works in this mode.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

// PublicOption configures a PublicClient.
type PublicOption func(*PublicClient)

// WithBaseURL points the client at a different host (useful for testing).
func WithBaseURL(u string) PublicOption {
	return func(pc *PublicClient) { pc.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) PublicOption {
	return func(pc *PublicClient) { pc.httpClient = c }
}

// WithLimiter overrides the request limiter.
func WithLimiter(l *rate.Limiter) PublicOption {
	return func(pc *PublicClient) { pc.limiter = l }
}

func NewPublicClient(userAgent string, opts ...PublicOption) (*PublicClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("a user agent is required for public access")
	}
	pc := &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON limit: 1 req / 2 seconds (stricter than the API)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   defaultBaseURL,
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc, nil
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data postJSON `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Subreddit string  `json:"subreddit"`
	Author    string  `json:"author"`
	URL       string  `json:"url"`
	Hint      string  `json:"post_hint"`
	IsVideo   bool    `json:"is_video"`
	IsGallery bool    `json:"is_gallery"`
	Score     int     `json:"score"`
	Created   float64 `json:"created_utc"`

	Preview struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`

	Media struct {
		RedditVideo struct {
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`

	MediaMetadata map[string]struct {
		Status string `json:"status"`
		S      struct {
			U string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`
}

// FetchPage returns one page of new posts plus the cursor for the next page.
func (pc *PublicClient) FetchPage(ctx context.Context, sub string, limit int, after string) ([]domain.Post, string, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", pc.baseURL, sub, limit)
	if after != "" {
		url += "&after=" + after
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, "", err
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data.toDomain())
	}
	return posts, listing.Data.After, nil
}

// SubredditExists checks the about endpoint, satisfying domain.Validator.
func (pc *PublicClient) SubredditExists(ctx context.Context, name string) (bool, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return false, err
	}

	url := fmt.Sprintf("%s/r/%s/about.json", pc.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (p postJSON) toDomain() domain.Post {
	d := domain.Post{
		ID:         p.ID,
		Title:      p.Title,
		Subreddit:  p.Subreddit,
		Author:     p.Author,
		URL:        p.URL,
		Hint:       p.Hint,
		IsVideo:    p.IsVideo,
		IsGallery:  p.IsGallery,
		Score:      p.Score,
		CreatedUTC: p.Created,
	}
	if len(p.Preview.Images) > 0 {
		d.PreviewURL = p.Preview.Images[0].Source.URL
	}
	d.FallbackVideoURL = p.Media.RedditVideo.FallbackURL

	// JSON object order is not observable here, so gallery items are
	// key-sorted to keep emission order deterministic.
	if len(p.MediaMetadata) > 0 {
		keys := make([]string, 0, len(p.MediaMetadata))
		for k := range p.MediaMetadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			item := p.MediaMetadata[k]
			d.Gallery = append(d.Gallery, domain.GalleryItem{
				ID:        k,
				Status:    item.Status,
				SourceURL: item.S.U,
			})
		}
	}
	return d
}
