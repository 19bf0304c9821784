package redgifs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TemporaryToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/auth/temporary", r.URL.Path)
		w.Write([]byte(`{"token":"tok-123"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	token, err := c.TemporaryToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestClient_TemporaryToken_MissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.TemporaryToken(context.Background())

	require.Error(t, err)
}

func TestClient_GetVideo_PrefersHD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/gifs/happything", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"gif":{"urls":{"hd":"https://media.redgifs.com/Thing.mp4","sd":"https://media.redgifs.com/Thing-mobile.mp4"}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	url, err := c.GetVideo(context.Background(), "happything", "tok-123")

	require.NoError(t, err)
	assert.Equal(t, "https://media.redgifs.com/Thing.mp4", url)
}

func TestClient_GetVideo_FallsBackToSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gif":{"urls":{"sd":"https://media.redgifs.com/Thing-mobile.mp4"}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	url, err := c.GetVideo(context.Background(), "happything", "tok-123")

	require.NoError(t, err)
	assert.Equal(t, "https://media.redgifs.com/Thing-mobile.mp4", url)
}

func TestClient_GetVideo_NoURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gif":{"urls":{}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.GetVideo(context.Background(), "happything", "tok-123")

	require.Error(t, err)
}

func TestClient_Session(t *testing.T) {
	tokenCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/auth/temporary":
			tokenCalls++
			w.Write([]byte(`{"token":"tok-123"}`))
		case "/v2/gifs/happything":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			w.Write([]byte(`{"gif":{"urls":{"hd":"https://media.redgifs.com/Thing.mp4"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	resolver, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls, "one token request per session")

	url, err := resolver.ResolveVideo(context.Background(), "happything")
	require.NoError(t, err)
	assert.Equal(t, "https://media.redgifs.com/Thing.mp4", url)
}

func TestClient_Session_TokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Session(context.Background())

	require.Error(t, err)
}

func TestResolver_CachesAssetLookups(t *testing.T) {
	gifCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gifCalls++
		w.Write([]byte(`{"gif":{"urls":{"hd":"https://media.redgifs.com/Thing.mp4"}}}`))
	}))
	defer srv.Close()

	r := NewResolver(NewClient(WithBaseURL(srv.URL)), "tok-123")

	for i := 0; i < 3; i++ {
		url, err := r.ResolveVideo(context.Background(), "happything")
		require.NoError(t, err)
		assert.Equal(t, "https://media.redgifs.com/Thing.mp4", url)
	}
	assert.Equal(t, 1, gifCalls, "repeat lookups must hit the cache")
}
