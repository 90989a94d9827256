package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/search"
	"github.com/Ishitag04/price-comparison-app/server"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func main() {
	config := types.LoadConfig()
	logger := newLogger()

	if config.APIKey == "" {
		logger.Warn("API_KEY is not set; every search will come back empty")
	}

	orchestrator := search.NewOrchestrator(config, logger)
	defer orchestrator.Close()

	srv, err := server.NewServer(config, logger, orchestrator)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
