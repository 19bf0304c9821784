package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// MockClient implements domain.Lister with fake pages, for offline runs.
type MockClient struct {
	// Pages is how many cursors the mock hands out before the listing ends.
	Pages int
}

func NewMockClient() *MockClient {
	return &MockClient{Pages: 2}
}

var mockURLs = []struct {
	url  string
	hint string
}{
	{"https://i.redd.it/mock0.jpg", "image"},
	{"https://i.imgur.com/mock1.gifv", ""},
	{"https://gfycat.com/mock2", ""},
	{"https://example.com/mock3.gif", ""},
}

func (mc *MockClient) FetchPage(ctx context.Context, sub string, limit int, after string) ([]domain.Post, string, error) {
	// Simulate network latency
	time.Sleep(100 * time.Millisecond)

	page := 0
	if after != "" {
		page, _ = strconv.Atoi(after)
	}

	posts := make([]domain.Post, 0, limit)
	for i := 0; i < limit; i++ {
		sample := mockURLs[i%len(mockURLs)]
		posts = append(posts, domain.Post{
			ID:         fmt.Sprintf("mock_%s_%d_%d", sub, page, i),
			Title:      fmt.Sprintf("[%s] simulated post #%d", sub, i),
			Subreddit:  sub,
			Author:     "simulated_user",
			URL:        sample.url,
			Hint:       sample.hint,
			CreatedUTC: float64(time.Now().Unix()),
		})
	}

	next := strconv.Itoa(page + 1)
	if page+1 >= mc.Pages {
		next = ""
	}
	return posts, next, nil
}

// SubredditExists always succeeds, so offline runs validate everything.
func (mc *MockClient) SubredditExists(ctx context.Context, name string) (bool, error) {
	return true, nil
}
