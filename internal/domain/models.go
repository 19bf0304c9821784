package domain

import "context"

// MediaKind distinguishes how a resolved URL should be presented.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// MediaItem is a resolved, directly playable media reference.
type MediaItem struct {
	URL       string    `json:"url"`
	Kind      MediaKind `json:"kind"`
	Subreddit string    `json:"subreddit,omitempty"`
}

// Flags gate whole classification branches per run.
type Flags struct {
	ShowImages bool
	ShowGIFs   bool
	ShowVideos bool
}

// GalleryItem is one entry of a gallery post's media metadata,
// in deterministic (key-sorted) order.
type GalleryItem struct {
	ID        string
	Status    string
	SourceURL string
}

// Post carries the listing fields the classifier consumes. It is never
// mutated after decoding.
type Post struct {
	ID        string
	Title     string
	Subreddit string
	Author    string
	URL       string

	Hint             string // reddit post_hint
	IsVideo          bool
	IsGallery        bool
	PreviewURL       string // preview source, still HTML-entity escaped
	FallbackVideoURL string // reddit_video fallback
	Gallery          []GalleryItem

	Score      int
	CreatedUTC float64
}

// Lister fetches one listing page for a subreddit. An empty after means the
// first page; the returned cursor is empty when there are no further pages.
type Lister interface {
	FetchPage(ctx context.Context, subreddit string, limit int, after string) ([]Post, string, error)
}

// VideoResolver resolves a provider asset id to a playable video URL.
type VideoResolver interface {
	ResolveVideo(ctx context.Context, assetID string) (string, error)
}

// Validator reports whether a named subreddit exists.
type Validator interface {
	SubredditExists(ctx context.Context, name string) (bool, error)
}
