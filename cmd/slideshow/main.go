package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/cabz1691/reddit-media-viewer/internal/collector"
	"github.com/cabz1691/reddit-media-viewer/internal/dashboard"
	"github.com/cabz1691/reddit-media-viewer/internal/domain"
	"github.com/cabz1691/reddit-media-viewer/internal/ingest"
	"github.com/cabz1691/reddit-media-viewer/internal/pipeline"
	"github.com/cabz1691/reddit-media-viewer/internal/player"
	"github.com/cabz1691/reddit-media-viewer/internal/redgifs"
	"github.com/cabz1691/reddit-media-viewer/internal/relay"
	"github.com/cabz1691/reddit-media-viewer/internal/storage"
	"github.com/cabz1691/reddit-media-viewer/internal/subs"
)

type config struct {
	Port          string `env:"PORT, default=8080"`
	CollectorMode string `env:"COLLECTOR_MODE, default=public"`
	UserAgent     string `env:"REDDIT_USER_AGENT, default=reddit-media-viewer/1.0"`
	ClientID      string `env:"REDDIT_CLIENT_ID"`
	ClientSecret  string `env:"REDDIT_CLIENT_SECRET"`
	Username      string `env:"REDDIT_USERNAME"`
	Password      string `env:"REDDIT_PASSWORD"`

	RelayURL       string `env:"RELAY_URL"`
	SubredditsFile string `env:"SUBREDDITS_FILE, default=input/subreddits.csv"`
	ManifestFile   string `env:"MANIFEST_FILE, default=data/queue.json"`

	PageSize        int  `env:"PAGE_SIZE, default=100"`
	MaxPages        int  `env:"MAX_PAGES, default=5"`
	IntervalSeconds int  `env:"INTERVAL_SECONDS, default=5"`
	ShowImages      bool `env:"SHOW_IMAGES, default=true"`
	ShowGIFs        bool `env:"SHOW_GIFS, default=true"`
	ShowVideos      bool `env:"SHOW_VIDEOS, default=true"`
}

func main() {
	// 1. Setup
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		logger.Error("error parsing config", "err", err)
		os.Exit(1)
	}

	// 2. Subscriptions
	names, err := ingest.LoadSubreddits(cfg.SubredditsFile)
	if err != nil {
		logger.Error("failed to load subreddit list", "path", cfg.SubredditsFile, "err", err)
		os.Exit(1)
	}

	set := subs.NewSet()
	for _, n := range names {
		set.Add(n)
	}

	collectorCfg := collector.Config{
		Mode:         cfg.CollectorMode,
		UserAgent:    cfg.UserAgent,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
	}

	validator, err := collector.NewValidator(collectorCfg)
	if err != nil {
		logger.Error("failed to initialize validator", "err", err)
		os.Exit(1)
	}
	set.ValidateAll(ctx, validator)
	for _, sub := range set.All() {
		logger.Info("subscription", "name", sub.Name, "validity", sub.Validity.String())
	}

	// 3. Aggregation
	lister, err := collector.New(collectorCfg)
	if err != nil {
		logger.Error("failed to initialize collector", "err", err)
		os.Exit(1)
	}
	logger.Info("collector initialized", "mode", cfg.CollectorMode)

	flags := domain.Flags{
		ShowImages: cfg.ShowImages,
		ShowGIFs:   cfg.ShowGIFs,
		ShowVideos: cfg.ShowVideos,
	}

	pipe := pipeline.New(lister, redgifs.NewClient(),
		pipeline.WithPageSize(cfg.PageSize),
		pipeline.WithMaxPages(cfg.MaxPages),
		pipeline.WithLogger(logger),
	)
	queue := pipe.Run(ctx, set.Validated(), flags)
	if len(queue) == 0 {
		logger.Error("no media aggregated, refusing to enter playback")
		os.Exit(1)
	}
	logger.Info("aggregation complete", "queue_size", len(queue))

	// 4. Queue manifest
	manifest := make(chan domain.MediaItem, len(queue))
	var writerWg sync.WaitGroup
	writer := &storage.WriterService{FilePath: cfg.ManifestFile}
	writerWg.Add(1)
	go writer.Start(&writerWg, manifest)
	for _, item := range queue {
		manifest <- item
	}
	close(manifest)
	writerWg.Wait()

	// 5. Playback
	resolver := relay.NewResolver(cfg.RelayURL)
	sched := player.New(time.Duration(cfg.IntervalSeconds)*time.Second,
		player.WithOnAdvance(func(pos int, item domain.MediaItem) {
			logger.Info("now showing",
				"position", pos,
				"kind", item.Kind,
				"subreddit", item.Subreddit,
				"url", resolver.Rewrite(item.URL),
			)
		}),
	)

	go func() {
		logger.Info("starting dashboard", "port", cfg.Port)
		if err := dashboard.StartServer(cfg.Port, func() []domain.MediaItem { return queue }); err != nil {
			logger.Error("dashboard failed", "err", err)
		}
	}()

	if err := sched.Load(queue); err != nil {
		logger.Error("failed to start playback", "err", err)
		os.Exit(1)
	}
	if item, ok := sched.Current(); ok {
		logger.Info("now showing",
			"position", 0,
			"kind", item.Kind,
			"subreddit", item.Subreddit,
			"url", resolver.Rewrite(item.URL),
		)
	}

	// 6. Graceful shutdown
	<-ctx.Done()
	sched.Stop()
	logger.Info("shutdown complete")
}
