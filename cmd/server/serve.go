package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/database"
	"github.com/tlmonitor/dashboard/internal/handlers"
	redisinfra "github.com/tlmonitor/dashboard/internal/infrastructure/redis"
	"github.com/tlmonitor/dashboard/internal/logger"
	"github.com/tlmonitor/dashboard/internal/secrets"
	"github.com/tlmonitor/dashboard/internal/services"
)

const shutdownTimeout = 10 * time.Second

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}
	creds := secrets.NewCachedProvider(
		secrets.NewSecretProvider(resolver, cfg.Secrets.DBSecretName),
		cfg.Secrets.CredentialTTL,
	)
	store := database.NewMessageStore(cfg.Database, creds, zapLogger)

	var publisher services.EventPublisher
	if cfg.Redis.Enabled() {
		rdb, err := redisinfra.NewClient(ctx, redisinfra.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		publisher = redisinfra.NewPublisher(rdb)
		zapLogger.Info("publishing job events", zap.String("redis", cfg.Redis.Addr), zap.String("channel", redisinfra.JobEventsChannel))
	}

	jobs := services.NewJobService(cfg, &http.Client{Timeout: cfg.DownstreamTimeout}, publisher, zapLogger)

	router, err := handlers.NewRouter(handlers.Dependencies{
		Config:  cfg,
		Preview: services.NewPreviewService(store, zapLogger),
		Jobs:    jobs,
		Logger:  zapLogger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting dashboard",
			zap.String("addr", cfg.Addr),
			zap.String("db_driver", cfg.Database.Driver),
			zap.String("secret_backend", cfg.Secrets.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newResolver(cfg *config.Config) (secrets.Resolver, error) {
	switch cfg.Secrets.Backend {
	case config.SecretBackendKeyring:
		return secrets.NewKeyringResolver(cfg.Secrets.KeyringService), nil
	default:
		return secrets.NewKeyVaultResolver(cfg.Secrets.KeyVaultURL)
	}
}
