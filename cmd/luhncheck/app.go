package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/luhncheck/internal/db"
	"github.com/nkiryanov/luhncheck/internal/handlers"
	"github.com/nkiryanov/luhncheck/internal/logger"
	"github.com/nkiryanov/luhncheck/internal/repository"
	"github.com/nkiryanov/luhncheck/internal/repository/postgres"
	"github.com/nkiryanov/luhncheck/internal/service/auth"
	"github.com/nkiryanov/luhncheck/internal/service/auth/session"
	"github.com/nkiryanov/luhncheck/internal/service/check"
)

const (
	shutdownTimeout = 5 * time.Second

	// How often expired refresh tokens are removed
	sweepInterval = time.Hour
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger  logger.Logger
	pool    *pgxpool.Pool
	storage repository.Storage
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	issuer, err := session.NewIssuer(session.Config{SecretKey: c.SecretKey}, storage.Refresh())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating session issuer. Err: %w", err)
	}
	authService := auth.NewService(storage.User(), issuer, nil)
	checkService := check.NewService(check.Config{BatchLimit: c.BatchLimit}, storage)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    handlers.NewRouter(authService, checkService, logger),
		logger:     logger,
		pool:       pool,
		storage:    storage,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()
	defer s.logger.Sync() // nolint:errcheck

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", "addr", s.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Listen and serve until context is cancelled; then close gracefully connections
	g.Go(func() error {
		<-ctx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err != nil {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...", "error", err)
			return fmt.Errorf("server shutdown error: %w", err)
		}
		s.logger.Info("HTTP server stopped")
		return nil
	})

	g.Go(func() error {
		s.sweepRefreshTokens(ctx, sweepInterval)
		return nil
	})

	return g.Wait()
}

// Delete expired refresh tokens every interval until context is cancelled
func (s *ServerApp) sweepRefreshTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			deleted, err := s.storage.Refresh().DeleteExpired(ctx, now)
			if err != nil {
				s.logger.Warn("expired refresh tokens not deleted", "error", err)
				continue
			}
			s.logger.Debug("expired refresh tokens deleted", "count", deleted)
		}
	}
}
