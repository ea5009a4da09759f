package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/arpav-bridge/internal/api/http"
	"github.com/i474232898/arpav-bridge/internal/bulletin"
	"github.com/i474232898/arpav-bridge/internal/bulletin/providers"
	"github.com/i474232898/arpav-bridge/internal/config"
	"github.com/i474232898/arpav-bridge/internal/logging"
)

// Version is injected at build time.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr := logging.New(cfg, Version, "arpav-bridge")

	// Shared HTTP client for outbound bulletin calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := providers.NewARPAVProvider(providers.HTTPClientConfig{
		Client: httpClient,
		Breaker: providers.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFailures,
			OpenTimeout: cfg.BreakerOpenTimeout,
		},
	}, cfg.UpstreamBaseURL, cfg.StationID, logr)

	service := bulletin.NewService(fetcher, logr)

	app := fiber.New(fiber.Config{
		AppName:               "arpav-bridge",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, service, httpapi.Options{
		Location: cfg.Location,
		Logger:   logr,
	})

	logr.Info("starting server",
		"addr", cfg.Addr(),
		"upstream", fetcher.URL(0),
		"timezone", cfg.Location.String(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr())
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		logr.Error("server stopped", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logr.Error("error during shutdown", "error", err)
	}
}
