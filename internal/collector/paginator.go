package collector

import (
	"context"
	"fmt"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// DefaultMaxPages bounds how deep a single feed fetch follows the cursor.
const DefaultMaxPages = 5

// FetchFeed collects up to maxPages listing pages for one subreddit,
// following the after cursor until the listing ends or the ceiling is hit.
// Posts are concatenated in fetch order. If a page fetch fails, the pages
// already collected are returned along with the error; there are no retries.
func FetchFeed(ctx context.Context, l domain.Lister, sub string, pageSize, maxPages int) ([]domain.Post, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var all []domain.Post
	after := ""
	for page := 0; page < maxPages; page++ {
		posts, next, err := l.FetchPage(ctx, sub, pageSize, after)
		if err != nil {
			return all, fmt.Errorf("r/%s page %d: %w", sub, page+1, err)
		}
		all = append(all, posts...)
		if next == "" {
			break
		}
		after = next
	}
	return all, nil
}
