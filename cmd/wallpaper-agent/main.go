package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/saaga0h/sunwall/internal/daylight"
	"github.com/saaga0h/sunwall/internal/theme"
	"github.com/saaga0h/sunwall/internal/wallpaper"
	"github.com/saaga0h/sunwall/pkg/config"
	"github.com/saaga0h/sunwall/pkg/health"
	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/postgres"
	"github.com/saaga0h/sunwall/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → file → env → flags
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	th, err := theme.Load(cfg.ThemeDir)
	if err != nil {
		logger.Error("Failed to load theme", "dir", cfg.ThemeDir, "error", err)
		os.Exit(1)
	}

	location := daylight.ResolveLocation(cfg.Latitude, cfg.Longitude, cfg.City, cfg.Timezone)

	logger.Info("Starting sunwall wallpaper agent",
		"service_name", cfg.ServiceName,
		"theme", th.DisplayName,
		"mode", cfg.Mode,
		"location_complete", location.Complete(),
		"mqtt_enabled", cfg.MQTTEnabled,
		"redis_enabled", cfg.RedisEnabled,
		"postgres_enabled", cfg.PostgresEnabled,
		"log_level", cfg.LogLevel)

	if !location.Complete() {
		logger.Warn("Location incomplete, using clock hours for periods",
			"city", cfg.City,
			"timezone", cfg.Timezone)
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	applier, err := wallpaper.NewCommandApplier(cfg.ApplyCommand, logger)
	if err != nil {
		logger.Error("Invalid apply command", "error", err)
		os.Exit(1)
	}

	deps := wallpaper.Dependencies{
		Engine:   daylight.NewEngine(daylight.SuncalcProvider{}, logger),
		Theme:    th,
		Location: location,
		Applier:  applier,
		Store:    wallpaper.NewMemoryStateStore(),
		Clock:    wallpaper.NewClock(logger),
	}

	// Optional services; nil clients are reported as disabled by the health checker
	var (
		mqttClient  mqtt.Client
		redisClient redis.Client
		pgClient    postgres.Client
	)

	if cfg.MQTTEnabled {
		mqttClient = mqtt.NewClient(cfg, logger)
		deps.MQTT = mqttClient
	}

	if cfg.RedisEnabled {
		redisClient = redis.NewClient(cfg, logger)
		if err := redisClient.Ping(ctx); err != nil {
			logger.Error("Failed to ping Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		deps.Store = wallpaper.NewRedisStateStore(redisClient, cfg.Display, logger)
	}

	if cfg.PostgresEnabled {
		pgClient = postgres.NewClient(cfg, logger)
		if err := pgClient.Connect(ctx); err != nil {
			logger.Error("Failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer pgClient.Disconnect()

		history := wallpaper.NewPostgresHistory(pgClient, logger)
		if err := history.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to prepare history table", "error", err)
			os.Exit(1)
		}
		deps.History = history
	}

	agent := wallpaper.NewAgent(deps, cfg, logger)

	var httpServer *http.Server
	if cfg.HealthEnabled() {
		healthChecker := health.NewChecker(mqttClient, redisClient, pgClient, logger)
		httpServer = startHealthServer(cfg.HealthPort, healthChecker, logger)
	}

	// Start agent in a goroutine
	agentDone := make(chan error, 1)
	go func() {
		agentDone <- agent.Start(ctx)
	}()

	exitCode := 0

	// Wait for shutdown signal or agent completion
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-agentDone:
		if err != nil {
			logger.Error("Agent failed", "error", err)
			exitCode = 1
		}
	}

	// Graceful shutdown
	logger.Info("Initiating graceful shutdown")
	cancel()

	if err := agent.Stop(); err != nil {
		logger.Error("Error stopping agent", "error", err)
	}

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down health server", "error", err)
		}
	}

	logger.Info("Wallpaper agent shutdown complete")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	checker.Register(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
