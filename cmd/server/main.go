package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf/config"
	"github.com/d60-Lab/shelf/internal/api"
	"github.com/d60-Lab/shelf/internal/api/handler"
	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/events"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/provider"
	"github.com/d60-Lab/shelf/internal/repository"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/database"
	"github.com/d60-Lab/shelf/pkg/logger"
	"github.com/d60-Lab/shelf/pkg/mailer"
	"github.com/d60-Lab/shelf/pkg/redisx"
	"github.com/d60-Lab/shelf/pkg/token"
	"github.com/d60-Lab/shelf/pkg/tracing"
)

// @title Shelf API
// @version 1.0
// @description 电影/图书社交书影库
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			SampleRate:       cfg.Sentry.SampleRate,
			AttachStacktrace: true,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		if shutdownTracing, err = tracing.Init(ctx, cfg.Tracing); err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	rdb, err := redisx.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	client := provider.NewHTTPClient(cfg.Content.HTTPTimeout)
	providers := provider.Registry{
		model.ContentMovie: provider.NewTMDB(client, cfg.Content.TMDBBaseURL, cfg.Content.TMDBImageBase, cfg.Content.TMDBAPIKey),
		model.ContentBook:  provider.NewGoogleBooks(client, cfg.Content.BooksBaseURL),
	}

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.NATS.URL != "" {
		np, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		publisher = np
	}

	if err := middleware.RegisterValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration)
	metrics := middleware.NewMetrics()
	services := api.NewServices(api.Deps{
		DB:             db,
		Redis:          rdb,
		Providers:      providers,
		Tokens:         tokens,
		Mailer:         mailer.New(cfg.Mail),
		Paging:         service.Paging{DefaultSize: cfg.Feed.DefaultPageSize, MaxSize: cfg.Feed.MaxPageSize},
		Metrics:        metrics,
		SearchCacheTTL: cfg.Content.SearchCacheTTL,
		ResetTTL:       cfg.Auth.ResetTTL,
		Content: service.ContentOptions{
			LookupTimeout: cfg.Content.LookupTimeout,
			RefreshAfter:  cfg.Content.RefreshAfter,
		},
		Auth: service.AuthOptions{
			MinPasswordLen: cfg.Auth.MinPasswordLen,
			ResetURL:       cfg.Auth.ResetURL,
		},
	})

	var limiter *middleware.RateLimiter
	stopSweeper := func() {}
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		stopSweeper = limiter.StartSweeper(time.Minute)
	}

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.RouterOptions{
		Handler:     handler.NewHandler(services),
		Tokens:      tokens,
		Metrics:     metrics,
		RateLimiter: limiter,
		ServiceName: cfg.Tracing.ServiceName,
		Tracing:     cfg.Tracing.Enabled,
	})

	// outbox relay：活动事件 -> NATS
	stopRelay := func(context.Context) error { return nil }
	metricsDone := make(chan struct{})
	if cfg.Outbox.Enabled {
		relay := service.NewOutboxRelay(repository.NewOutboxRepository(db), publisher, service.RelayOptions{
			Workers:      cfg.Outbox.Workers,
			ClaimLimit:   cfg.Outbox.ClaimLimit,
			PollInterval: cfg.Outbox.PollInterval,
			MaxAttempts:  cfg.Outbox.MaxAttempts,
			Lease:        cfg.Outbox.Lease,
		})
		stopRelay = relay.Start()
		go metrics.ObserveOutbox(relay.Metrics(), metricsDone)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.WithCORS(router, cfg.CORS.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Error("http server failed", zap.Error(err))
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var result *multierror.Error
	if err := srv.Shutdown(sctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("http shutdown: %w", err))
	}
	stopSweeper()
	if err := stopRelay(sctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("outbox relay: %w", err))
	}
	close(metricsDone)
	if err := publisher.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("publisher: %w", err))
	}
	if err := rdb.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("redis: %w", err))
	}
	if err := sqlDB.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("database: %w", err))
	}
	if err := shutdownTracing(sctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("tracing: %w", err))
	}
	return result.ErrorOrNil()
}
