package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// fakeLister scripts the cursor sequence and records every call.
type fakeLister struct {
	pages   int // pages before the cursor runs out; 0 means endless
	failAt  int // 1-based page index that errors; 0 disables
	calls   int
	cursors []string
}

func (f *fakeLister) FetchPage(ctx context.Context, sub string, limit int, after string) ([]domain.Post, string, error) {
	f.calls++
	f.cursors = append(f.cursors, after)
	if f.failAt != 0 && f.calls == f.failAt {
		return nil, "", errors.New("listing unavailable")
	}

	posts := []domain.Post{{ID: fmt.Sprintf("%s_p%d", sub, f.calls)}}
	if f.pages != 0 && f.calls >= f.pages {
		return posts, "", nil
	}
	return posts, "t3_" + strconv.Itoa(f.calls), nil
}

func TestFetchFeed_StopsAtPageCeiling(t *testing.T) {
	lister := &fakeLister{} // hands out a cursor on every call

	posts, err := FetchFeed(context.Background(), lister, "aww", 100, 5)

	require.NoError(t, err)
	assert.Equal(t, 5, lister.calls, "exactly maxPages requests must be issued")
	assert.Len(t, posts, 5)
	assert.Equal(t, []string{"", "t3_1", "t3_2", "t3_3", "t3_4"}, lister.cursors)
}

func TestFetchFeed_StopsWhenCursorRunsOut(t *testing.T) {
	lister := &fakeLister{pages: 2}

	posts, err := FetchFeed(context.Background(), lister, "aww", 100, 5)

	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
	assert.Len(t, posts, 2)
}

func TestFetchFeed_PageFailureKeepsCollectedPages(t *testing.T) {
	lister := &fakeLister{failAt: 3}

	posts, err := FetchFeed(context.Background(), lister, "aww", 100, 5)

	require.Error(t, err)
	assert.Equal(t, 3, lister.calls, "no retries after a page failure")
	assert.Len(t, posts, 2, "pages collected before the failure are kept")
}

func TestFetchFeed_OrderPreserved(t *testing.T) {
	lister := &fakeLister{pages: 3}

	posts, err := FetchFeed(context.Background(), lister, "aww", 100, 5)

	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "aww_p1", posts[0].ID)
	assert.Equal(t, "aww_p2", posts[1].ID)
	assert.Equal(t, "aww_p3", posts[2].ID)
}

func TestFetchFeed_DefaultCeiling(t *testing.T) {
	lister := &fakeLister{}

	_, err := FetchFeed(context.Background(), lister, "aww", 100, 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPages, lister.calls)
}
