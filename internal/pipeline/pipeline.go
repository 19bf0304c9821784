// Package pipeline assembles the playback queue: it pages through every
// validated feed, classifies each post, and shuffles the accumulated
// references.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cabz1691/reddit-media-viewer/internal/classify"
	"github.com/cabz1691/reddit-media-viewer/internal/collector"
	"github.com/cabz1691/reddit-media-viewer/internal/domain"
)

// DefaultPageSize is the listing page size requested per fetch.
const DefaultPageSize = 100

// SessionSource hands out a per-run resolver for the token-gated provider.
type SessionSource interface {
	Session(ctx context.Context) (domain.VideoResolver, error)
}

// Pipeline runs one aggregation pass. Feeds are processed sequentially to
// respect the paginated listing contract and keep the listing host happy.
type Pipeline struct {
	lister   domain.Lister
	sessions SessionSource
	pageSize int
	maxPages int
	rng      *rand.Rand
	log      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPageSize sets the listing page size.
func WithPageSize(n int) Option {
	return func(p *Pipeline) { p.pageSize = n }
}

// WithMaxPages caps how many pages are fetched per feed.
func WithMaxPages(n int) Option {
	return func(p *Pipeline) { p.maxPages = n }
}

// WithRand sets the shuffle source (deterministic in tests).
func WithRand(r *rand.Rand) Option {
	return func(p *Pipeline) { p.rng = r }
}

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New builds a pipeline over the given lister. A nil sessions source
// disables the token-gated provider branch entirely.
func New(lister domain.Lister, sessions SessionSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		lister:   lister,
		sessions: sessions,
		pageSize: DefaultPageSize,
		maxPages: collector.DefaultMaxPages,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run aggregates media for the given validated subreddits and returns the
// shuffled playback queue. Failures degrade to absent media: a token failure
// disables one branch, a page failure truncates one feed, and nothing aborts
// the run. An empty subreddit list yields an empty queue.
func (p *Pipeline) Run(ctx context.Context, subreddits []string, flags domain.Flags) []domain.MediaItem {
	var resolver domain.VideoResolver
	if p.sessions != nil {
		r, err := p.sessions.Session(ctx)
		if err != nil {
			p.log.Warn("token acquisition failed, token-gated media skipped this run", "err", err)
		} else {
			resolver = r
		}
	}

	var queue []domain.MediaItem
	for _, sub := range subreddits {
		posts, err := collector.FetchFeed(ctx, p.lister, sub, p.pageSize, p.maxPages)
		if err != nil {
			p.log.Warn("feed fetch truncated", "subreddit", sub, "posts_kept", len(posts), "err", err)
		}
		for _, post := range posts {
			queue = append(queue, classify.Classify(ctx, post, flags, resolver)...)
		}
		p.log.Info("feed aggregated", "subreddit", sub, "posts", len(posts), "queue_size", len(queue))
	}

	p.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return queue
}
