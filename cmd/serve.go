package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"agrovision/internal/logger"
	"agrovision/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func getServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfig()

	log, syncLog, err := logger.New(cfg.LogCfg.Mode, cfg.LogCfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer syncLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	deps, err := buildApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start AgroVision", zap.Error(err))
		return err
	}
	defer deps.close()

	if seeded, err := repository.SeedIfEmpty(ctx, deps.storage); err != nil {
		log.Error("failed to seed sample data", zap.Error(err))
	} else if seeded {
		log.Info("sample dataset inserted")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           deps.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting AgroVision",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.StorageBackend),
			zap.String("image_store", cfg.ImageStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down AgroVision")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("AgroVision stopped")
	return nil
}
