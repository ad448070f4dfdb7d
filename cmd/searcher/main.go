package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port, "source", cfg.Indexer.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port, nil)
		defer shutdownMetrics(context.Background())
	}

	src, closer, err := source.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document source", "error", err)
		os.Exit(1)
	}
	idx, stats, err := indexer.NewBuilder(cfg.Indexer, m).BuildWithStats(ctx, src, src)
	closer.Close()
	if err != nil {
		slog.Error("failed to build index", "error", err)
		os.Exit(1)
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			store := cache.Guard(redisClient, resilience.CircuitBreakerConfig{})
			queryCache = cache.New(store, cfg.Redis, idx.BuiltAt().UnixNano(), m)
			slog.Info("search cache enabled",
				"addr", cfg.Redis.Addr,
				"ttl", cfg.Redis.CacheTTL,
			)
		}
	}

	aggregator := analytics.NewAggregator()
	var publisher analytics.Publisher
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
		defer producer.Close()
		publisher = producer
		slog.Info("analytics publishing enabled", "topic", cfg.Kafka.Topics.AnalyticsEvents)
	}
	collector := analytics.NewCollector(publisher, aggregator, cfg.Analytics.BufferSize)
	collector.Start(ctx)
	defer collector.Close()
	collector.Track(analytics.IndexEvent{
		Type:       analytics.EventIndexBuilt,
		Documents:  stats.Documents,
		Keywords:   stats.Keywords,
		Tokens:     stats.Tokens,
		Rejected:   stats.Rejected,
		DurationMs: stats.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if !idx.Sealed() {
			return health.ComponentHealth{Status: health.StatusDown, Message: "index not built"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d keywords, %d documents", idx.Len(), idx.DocCount()),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "caching disabled"}
		}
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	exec := executor.New(idx, cfg.Search.TopK, m)
	h := handler.New(exec, idx, queryCache, collector, m)
	analyticsH := analytics.NewHandler(aggregator)

	mux := http.NewServeMux()
	h.Routes(mux)
	mux.HandleFunc("GET /api/v1/analytics/stats", analyticsH.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Search.Timeout)(chain)
	chain = middleware.RateLimit(cfg.Search.RateLimit, cfg.Search.RateBurst)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Shutdown returns once in-flight handlers are done; the deferred
	// collector.Close must not run before that.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-shutdownDone

	slog.Info("search service stopped")
}
