package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"agririsk-back/internal/auth"
	"agririsk-back/internal/database"
	"agririsk-back/internal/handlers"
	"agririsk-back/internal/metrics"
	"agririsk-back/internal/prediction"
	"agririsk-back/internal/storage"
	"agririsk-back/internal/store"

	"github.com/gin-gonic/gin"
)

func runServer(ctx context.Context, envFile string) error {
	cfg, logger, db, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Auto-migrate models
	if err := database.MigrateDB(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return err
	}

	var archiver handlers.Archiver
	if cfg.StorageEnabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize MinIO client", "error", err)
			return err
		}
		archiver = minioClient
	} else {
		logger.Info("MINIO_ENDPOINT not set, export archiving disabled")
	}

	m, err := metrics.New()
	if err != nil {
		return err
	}

	st := store.New(db)
	hasher := auth.NewPasswordHasher(auth.Argon2Params{
		MemoryKiB: cfg.Argon2MemoryKiB,
		Time:      cfg.Argon2Time,
		Threads:   cfg.Argon2Threads,
	})

	gin.SetMode(cfg.GinMode)
	router := handlers.NewRouter(handlers.Deps{
		DB:          db,
		Auth:        auth.NewService(st, hasher, logger),
		Predictions: prediction.NewService(st, prediction.DefaultSource, logger),
		Archiver:    archiver,
		Metrics:     m,
		Logger:      logger,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}
