// cmd/monday-learn/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/mondaylearn/monday-learn-api/pkg/config"
	"github.com/mondaylearn/monday-learn-api/pkg/db"
	"github.com/mondaylearn/monday-learn-api/pkg/logger"
	"github.com/mondaylearn/monday-learn-api/pkg/report"
	"github.com/mondaylearn/monday-learn-api/pkg/web"
)

func main() {
	// Optional .env for local development; config values win over defaults.
	_ = godotenv.Load()

	configPath := os.Getenv("MONDAY_LEARN_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}
	if err := config.LoadConfig(configPath); err != nil {
		logger.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	reportService := &report.Service{
		Timeout: time.Duration(config.AppConfig.Report.TimeoutSeconds) * time.Second,
	}

	host := config.AppConfig.Server.Host
	port := config.AppConfig.Server.Port
	if port == 0 {
		port = 8080
	}
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           web.NewRouter(reportService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down server", "error", err)
		}
	}()

	logger.Info("starting server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
