package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

const listingFixture = `{
  "data": {
    "after": "t3_next",
    "children": [
      {
        "data": {
          "id": "abc",
          "title": "a cat",
          "subreddit": "aww",
          "author": "someone",
          "url": "https://i.redd.it/cat.jpg",
          "post_hint": "image",
          "score": 12,
          "created_utc": 1700000000,
          "preview": {
            "images": [
              {"source": {"url": "https://preview.redd.it/cat.jpg?width=640&amp;s=xyz"}}
            ]
          }
        }
      },
      {
        "data": {
          "id": "def",
          "title": "a clip",
          "subreddit": "aww",
          "author": "other",
          "url": "https://v.redd.it/def",
          "is_video": true,
          "media": {"reddit_video": {"fallback_url": "https://v.redd.it/def/DASH_720.mp4"}}
        }
      },
      {
        "data": {
          "id": "ghi",
          "title": "an album",
          "subreddit": "aww",
          "author": "third",
          "url": "https://www.reddit.com/gallery/ghi",
          "is_gallery": true,
          "media_metadata": {
            "zz2": {"status": "valid", "s": {"u": "https://i.redd.it/two.jpg"}},
            "aa1": {"status": "valid", "s": {"u": "https://i.redd.it/one.jpg"}}
          }
        }
      }
    ]
  }
}`

func newTestPublicClient(t *testing.T, baseURL string) *PublicClient {
	t.Helper()
	pc, err := NewPublicClient("test-agent",
		WithBaseURL(baseURL),
		WithLimiter(rate.NewLimiter(rate.Inf, 0)),
	)
	require.NoError(t, err)
	return pc
}

func TestPublicClient_FetchPage(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingFixture))
	}))
	defer srv.Close()

	pc := newTestPublicClient(t, srv.URL)
	posts, after, err := pc.FetchPage(context.Background(), "aww", 100, "t3_prev")

	require.NoError(t, err)
	assert.Equal(t, "/r/aww/new.json", gotPath)
	assert.Equal(t, "limit=100&after=t3_prev", gotQuery)
	assert.Equal(t, "test-agent", gotAgent)
	assert.Equal(t, "t3_next", after)
	require.Len(t, posts, 3)

	img := posts[0]
	assert.Equal(t, "image", img.Hint)
	assert.Equal(t, "https://preview.redd.it/cat.jpg?width=640&amp;s=xyz", img.PreviewURL,
		"preview URL stays entity-escaped until classification")

	vid := posts[1]
	assert.True(t, vid.IsVideo)
	assert.Equal(t, "https://v.redd.it/def/DASH_720.mp4", vid.FallbackVideoURL)

	gal := posts[2]
	assert.True(t, gal.IsGallery)
	require.Len(t, gal.Gallery, 2)
	assert.Equal(t, "aa1", gal.Gallery[0].ID, "gallery items are key-sorted for determinism")
	assert.Equal(t, "https://i.redd.it/one.jpg", gal.Gallery[0].SourceURL)
	assert.Equal(t, "zz2", gal.Gallery[1].ID)
}

func TestPublicClient_FetchPage_FirstPageHasNoCursor(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":{"after":"","children":[]}}`))
	}))
	defer srv.Close()

	pc := newTestPublicClient(t, srv.URL)
	posts, after, err := pc.FetchPage(context.Background(), "aww", 25, "")

	require.NoError(t, err)
	assert.Equal(t, "limit=25", gotQuery)
	assert.Empty(t, after)
	assert.Empty(t, posts)
}

func TestPublicClient_FetchPage_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	pc := newTestPublicClient(t, srv.URL)
	_, _, err := pc.FetchPage(context.Background(), "aww", 100, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPublicClient_SubredditExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r/aww/about.json" {
			w.Write([]byte(`{"kind":"t5"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	pc := newTestPublicClient(t, srv.URL)

	ok, err := pc.SubredditExists(context.Background(), "aww")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pc.SubredditExists(context.Background(), "nosuchsub")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPublicClient_RequiresUserAgent(t *testing.T) {
	_, err := NewPublicClient("")
	require.Error(t, err)
}

func TestFactory_ModeSelection(t *testing.T) {
	lister, err := New(Config{Mode: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, lister)

	lister, err = New(Config{Mode: "public", UserAgent: "test-agent"})
	require.NoError(t, err)
	assert.IsType(t, &PublicClient{}, lister)

	_, err = New(Config{Mode: "bogus"})
	require.Error(t, err)
}

var _ domain.Validator = (*PublicClient)(nil)
var _ domain.Validator = (*MockClient)(nil)
var _ domain.Lister = (*PublicClient)(nil)
var _ domain.Lister = (*APIClient)(nil)
var _ domain.Lister = (*MockClient)(nil)
