package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flytau/flytau/internal/config"
	"github.com/flytau/flytau/internal/postgres"
	redisx "github.com/flytau/flytau/internal/redis"
	postgresrepo "github.com/flytau/flytau/internal/repository/postgres"
	redisrepo "github.com/flytau/flytau/internal/repository/redis"
	"github.com/flytau/flytau/internal/service"
	"github.com/flytau/flytau/internal/service/auth"
	httpgin "github.com/flytau/flytau/internal/transport/http/gin"
)

const draftTTL = 30 * time.Minute

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisx.FlightsPubSub
	cache      *redisrepo.Cache
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewFlightsPubSub(rdb)
	loginLimiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimit("login"), 10, 1*time.Minute)
	checkoutLimiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimit("checkout"), 20, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 24*time.Hour)
	drafts := redisrepo.NewDraftStore(rdb, draftTTL)

	// Initialize services
	services := service.NewServices(
		store,
		cache,
		pubsub,
		loginLimiter,
		checkoutLimiter,
		idempotencyStore,
		drafts,
		service.Config{
			Auth: auth.Config{
				JWTSecret:      cfg.Auth.JWTSecret,
				AccessTokenTTL: time.Duration(cfg.Auth.AccessTokenTTL) * time.Minute,
				BcryptCost:     cfg.Auth.BcryptCost,
			},
		},
	)

	// Initialize Gin router
	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pubsub: pubsub,
		cache:  cache,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop local cache entries when another instance changes a flight.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, flightNumber string) {
			_ = a.cache.InvalidateFlight(ctx, flightNumber)
		})
		if err != nil && gCtx.Err() == nil {
			a.logger.Error("pubsub subscription stopped", "error", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
