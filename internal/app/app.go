// Package app wires together all dependencies and runs the server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KodyPrograms/RevuMe/internal/config"
	handler "github.com/KodyPrograms/RevuMe/internal/handler/http"
	"github.com/KodyPrograms/RevuMe/internal/repository"
	"github.com/KodyPrograms/RevuMe/internal/repository/memory"
	"github.com/KodyPrograms/RevuMe/internal/repository/postgres"
	"github.com/KodyPrograms/RevuMe/internal/service"
	"github.com/KodyPrograms/RevuMe/migrations"
	"github.com/KodyPrograms/RevuMe/pkg/database"
	"github.com/KodyPrograms/RevuMe/pkg/health"
	"github.com/KodyPrograms/RevuMe/pkg/middleware"
	"github.com/KodyPrograms/RevuMe/pkg/tracing"
)

// App holds the wired application and its long-lived resources.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool // nil with the memory store
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// stores groups the three repository implementations behind one driver choice.
type stores struct {
	users   repository.UserRepository
	tokens  repository.TokenRepository
	reviews repository.ReviewRepository
	ping    func(ctx context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "revume",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	var (
		pool *pgxpool.Pool
		st   stores
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		st = stores{
			users:   store.Users(),
			tokens:  store.Tokens(),
			reviews: store.Reviews(),
			ping:    func(context.Context) error { return nil },
		}
		logger.Info("using in-memory store; data will not survive restarts")

	case config.StorePostgres:
		pgCfg := database.DefaultPostgresConfig(cfg.DatabaseURL)
		pgCfg.MaxConns = cfg.DBMaxConns
		pgCfg.MinConns = cfg.DBMinConns

		pool, err = database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL")
		database.RegisterPoolMetrics(pool, "revume")

		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed")

		st = stores{
			users:   postgres.NewUserRepository(pool),
			tokens:  postgres.NewTokenRepository(pool),
			reviews: postgres.NewReviewRepository(pool),
			ping:    pool.Ping,
		}

	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.StoreDriver)
	}

	// Build the dependency graph.
	authService := service.NewAuthService(st.users, st.tokens, cfg.TokenTTL, logger)
	reviewService := service.NewReviewService(st.reviews, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("store", st.ping)

	// HTTP router.
	router := handler.NewRouter(authService, reviewService, healthHandler, logger, handler.RouterConfig{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.FrontendOrigins,
			Environment:    cfg.Environment,
		},
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("store", a.cfg.StoreDriver),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
