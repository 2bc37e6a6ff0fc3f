package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/saaga0h/sunwall/e2e/internal/checker"
	"github.com/saaga0h/sunwall/e2e/internal/executor"
	"github.com/saaga0h/sunwall/e2e/internal/reporter"
	"github.com/saaga0h/sunwall/e2e/internal/scenario"
	"github.com/saaga0h/sunwall/pkg/config"
	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/redis"
)

func main() {
	// Connection settings share the agent's SUNWALL_* variables and flags
	cfg := config.NewConfig()
	cfg.ServiceName = "scenario-runner"
	cfg.LoadFromEnv()

	fs := cfg.FlagSet()
	scenarioPath := fs.String("scenario", "", "Path to YAML scenario file (required)")
	outputDir := fs.String("output-dir", "./test-output", "Output directory for test artifacts")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *scenarioPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --scenario is required\n")
		fs.Usage()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scen, err := scenario.LoadScenario(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient redis.Client
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(cfg, logger)
		if err := redisClient.Ping(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	var pgChecker *checker.PostgresChecker
	if cfg.PostgresEnabled {
		pgChecker, err = checker.NewPostgresChecker(ctx, cfg.PostgresConnectionString(), logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		defer pgChecker.Close()
	}

	runner := executor.NewRunner(mqtt.NewClient(cfg, logger), redisClient, pgChecker, logger)

	result, timelineEvents, err := runner.Run(ctx, scen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scenario execution failed: %v\n", err)
		os.Exit(1)
	}

	name := strings.TrimSuffix(filepath.Base(*scenarioPath), filepath.Ext(*scenarioPath))

	timeline := reporter.GenerateTimeline(result, timelineEvents)
	fmt.Println(timeline)

	if err := reporter.SaveTimeline(timeline, filepath.Join(*outputDir, "timelines", name+".txt")); err != nil {
		logger.Warn("Failed to save timeline", "error", err)
	}
	if err := runner.SaveCapture(filepath.Join(*outputDir, "captures", name+".json")); err != nil {
		logger.Warn("Failed to save capture", "error", err)
	}
	if err := reporter.SaveSummary(result, filepath.Join(*outputDir, "summaries", name+".json")); err != nil {
		logger.Warn("Failed to save summary", "error", err)
	}

	if !result.Passed {
		os.Exit(1)
	}
}
