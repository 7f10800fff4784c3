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

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/leadpoint/site-api/internal/api"
	"github.com/leadpoint/site-api/internal/core/ports"
	"github.com/leadpoint/site-api/internal/core/service"
	mongostore "github.com/leadpoint/site-api/internal/infrastructure/db/mongo"
	redisstore "github.com/leadpoint/site-api/internal/infrastructure/db/redis"
	"github.com/leadpoint/site-api/internal/infrastructure/session"
	"github.com/leadpoint/site-api/pkg/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	cfg, log := a.cfg, a.log

	sessions, err := session.NewManager(session.Options{
		Secret: cfg.SessionSecret,
		Secure: cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	var (
		rdb     *redis.Client
		limiter ports.LoginLimiter
	)
	redisCfg := redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redisstore.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = redisstore.NewLoginLimiter(rdb, cfg.Login.MaxFailures, cfg.Login.Lockout)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login lockout disabled")
	}

	// The connector dials lazily; an early failure only delays readiness.
	if _, err := a.db.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("initial mongo connection failed, retrying on demand")
	}

	e := api.NewRouter(api.Deps{
		Log:             logger.Component("http"),
		Sessions:        sessions,
		Auth:            service.NewAuthService(a.admins, limiter, logger.Component("auth")),
		Articles:        service.NewArticleService(mongostore.NewArticleRepository(a.db), logger.Component("articles")),
		Jobs:            service.NewJobService(mongostore.NewJobRepository(a.db), logger.Component("jobs")),
		Database:        a.db,
		Redis:           rdb,
		LoginRatePerSec: cfg.Login.RatePerSec,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := a.db.Disconnect(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect failed")
	}
	log.Info().Msg("server stopped")
	return nil
}
