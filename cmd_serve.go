package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/config"
	"finance-tracker-backend/internal/events"
	apphttp "finance-tracker-backend/internal/http"
	"finance-tracker-backend/internal/jobs"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/service"
	"finance-tracker-backend/internal/storage"
	"finance-tracker-backend/internal/storage/memory"
	"finance-tracker-backend/internal/storage/postgres"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Initialize storage
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	// Initialize Redis
	var redisCache *cache.Cache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Failed to initialize Redis, continuing without cache", log.FieldError, err)
		} else {
			redisCache = cache.New(client, logger)
			defer redisCache.Close()
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Warn("Failed to connect to AMQP broker, events disabled", log.FieldError, err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	svc := service.New(store, redisCache, publisher, logger, service.Options{SessionTTL: cfg.SessionTTL})

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.AddSessionPurge(cfg.SessionPurgeSchedule, store); err != nil {
		return err
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        apphttp.NewRouter(svc, logger, apphttp.Config{AllowOrigins: cfg.CORSAllowOrigins}),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = scheduler.Stop(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("Scheduler shutdown error", log.FieldError, err)
	}
	logger.Info("Server stopped")
	return nil
}

// openStore connects the configured backend. The memory backend starts with the demo data.
func openStore(ctx context.Context) (storage.Store, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		store := memory.New()
		if err := seedDemo(ctx, store); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return postgres.Open(ctx, dbOptions(), logger)
	}
}

func dbOptions() postgres.Options {
	return postgres.Options{
		URL:        cfg.DatabaseURL,
		MaxRetries: cfg.DBConnectRetries,
		RetryDelay: cfg.DBRetryDelay,
	}
}

func seedDemo(ctx context.Context, store storage.Store) error {
	hash, err := auth.HashPassword(storage.DemoPassword)
	if err != nil {
		return err
	}
	created, err := storage.SeedDemo(ctx, store, hash, time.Now())
	if err != nil {
		return fmt.Errorf("seeding demo data failed: %w", err)
	}
	if created {
		logger.Info("Demo data seeded", "email", storage.DemoEmail)
	} else {
		logger.Info("Demo data already present", "email", storage.DemoEmail)
	}
	return nil
}
