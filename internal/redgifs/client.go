// Package redgifs resolves redgifs assets to playable video URLs using the
// anonymous temporary-token flow.
package redgifs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

const defaultBaseURL = "https://api.redgifs.com"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// Client talks to the redgifs v2 API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TemporaryToken requests a short-lived anonymous bearer token. Callers fetch
// it once per aggregation run and never persist it.
func (c *Client) TemporaryToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/auth/temporary", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching temporary token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("temporary token status: %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("token response missing token field")
	}
	return body.Token, nil
}

// GetVideo looks up one asset and returns its best available URL,
// preferring the hd rendition and falling back to sd.
func (c *Client) GetVideo(ctx context.Context, assetID, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/gifs/"+assetID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching gif %s: %w", assetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gif %s status: %d", assetID, resp.StatusCode)
	}

	var body struct {
		Gif struct {
			URLs struct {
				HD string `json:"hd"`
				SD string `json:"sd"`
			} `json:"urls"`
		} `json:"gif"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding gif response: %w", err)
	}

	switch {
	case body.Gif.URLs.HD != "":
		return body.Gif.URLs.HD, nil
	case body.Gif.URLs.SD != "":
		return body.Gif.URLs.SD, nil
	default:
		return "", fmt.Errorf("gif %s has no playable url", assetID)
	}
}

// Session acquires one temporary token and returns a resolver bound to it.
// The token lives exactly as long as the resolver is used for the run.
func (c *Client) Session(ctx context.Context) (domain.VideoResolver, error) {
	token, err := c.TemporaryToken(ctx)
	if err != nil {
		return nil, err
	}
	return NewResolver(c, token), nil
}
