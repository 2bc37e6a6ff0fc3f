package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/saaga0h/sunwall/e2e/internal/checker"
	"github.com/saaga0h/sunwall/e2e/internal/reporter"
	"github.com/saaga0h/sunwall/e2e/internal/scenario"
	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/redis"
)

// Runner drives a running wallpaper agent through a scenario.
// Redis and Postgres checks are skipped as failures when their client is nil.
type Runner struct {
	mqtt     mqtt.Client
	redis    redis.Client
	postgres *checker.PostgresChecker
	logger   *slog.Logger

	// Settle time after publishing the virtual clock configuration
	settle time.Duration

	mu       sync.RWMutex
	captured []checker.CapturedMessage
}

// NewRunner creates a new scenario runner
func NewRunner(mqttClient mqtt.Client, redisClient redis.Client, pgChecker *checker.PostgresChecker, logger *slog.Logger) *Runner {
	return &Runner{
		mqtt:     mqttClient,
		redis:    redisClient,
		postgres: pgChecker,
		logger:   logger,
		settle:   time.Second,
	}
}

// Run executes a scenario
func (r *Runner) Run(ctx context.Context, s *scenario.Scenario) (*scenario.TestResult, []reporter.TimelineEvent, error) {
	r.logger.Info("Starting scenario", "name", s.Name, "description", s.Description)

	if err := r.mqtt.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT: %w", err)
	}
	defer r.mqtt.Disconnect()

	topic := mqtt.WallpaperTopic(s.Display)
	if err := r.mqtt.Subscribe(topic, 1, r.capture); err != nil {
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	// Without stored state the agent applies, and announces, on its first virtual tick
	if r.redis != nil {
		if err := r.redis.Del(ctx, redis.WallpaperStateKey(s.Display)); err != nil {
			return nil, nil, fmt.Errorf("failed to clear wallpaper state: %w", err)
		}
	}

	if err := r.publishTestMode(&s.TestMode); err != nil {
		return nil, nil, err
	}
	defer r.resetTestMode()

	if err := sleepContext(ctx, r.settle); err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	timelineEvents := []reporter.TimelineEvent{{
		Layer:       "clock",
		Description: fmt.Sprintf("virtual time from %s at %dx", s.TestMode.VirtualStart, s.TestMode.TimeScale),
	}}

	expectations := make([]scenario.Expectation, len(s.Expectations))
	copy(expectations, s.Expectations)
	sort.SliceStable(expectations, func(i, j int) bool {
		return expectations[i].Time < expectations[j].Time
	})

	var results []scenario.ExpectationResult
	for _, exp := range expectations {
		if err := WaitUntil(ctx, startTime, exp.Time, s.TestMode.TimeScale); err != nil {
			return nil, nil, err
		}
		elapsed := GetElapsed(startTime)

		passed, reason, actual := r.check(ctx, s, exp)
		results = append(results, scenario.ExpectationResult{
			Expectation: exp,
			Passed:      passed,
			Reason:      reason,
			Actual:      actual,
		})

		if passed {
			r.logger.Info("Expectation passed", "kind", exp.Kind(), "virtual_sec", exp.Time)
		} else {
			r.logger.Warn("Expectation failed", "kind", exp.Kind(), "virtual_sec", exp.Time, "reason", reason)
		}

		timelineEvents = append(timelineEvents, reporter.TimelineEvent{
			Elapsed:     elapsed,
			Layer:       exp.Kind(),
			Description: describe(exp),
			Success:     passed,
			IsCheck:     true,
		})
	}

	result := &scenario.TestResult{
		Scenario:     s,
		StartTime:    startTime,
		EndTime:      time.Now(),
		Expectations: results,
	}
	for _, res := range results {
		if res.Passed {
			result.PassedCount++
		} else {
			result.FailedCount++
		}
	}
	result.Passed = result.FailedCount == 0

	return result, timelineEvents, nil
}

func (r *Runner) check(ctx context.Context, s *scenario.Scenario, exp scenario.Expectation) (bool, string, interface{}) {
	switch exp.Kind() {
	case "postgres":
		if r.postgres == nil {
			return false, "postgres checks are disabled", nil
		}
		return r.postgres.Check(ctx, exp.PostgresQuery, exp.PostgresExpected)
	case "redis":
		return checker.CheckRedisExpectation(ctx, r.redis, s.Display, exp)
	default:
		return checker.CheckMessage(exp, mqtt.WallpaperTopic(s.Display), r.Messages())
	}
}

func (r *Runner) capture(msg mqtt.Message) {
	var payload interface{}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		payload = string(msg.Payload())
	}

	r.mu.Lock()
	r.captured = append(r.captured, checker.CapturedMessage{
		Timestamp: time.Now(),
		Topic:     msg.Topic(),
		Retained:  msg.Retained(),
		Payload:   payload,
	})
	r.mu.Unlock()
}

// Messages returns a copy of all captured change events
func (r *Runner) Messages() []checker.CapturedMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checker.CapturedMessage, len(r.captured))
	copy(out, r.captured)
	return out
}

// publishTestMode switches the agent's clock to virtual time
func (r *Runner) publishTestMode(tm *scenario.TestModeConfig) error {
	payload, err := json.Marshal(map[string]interface{}{
		"virtual_start": tm.VirtualStart,
		"time_scale":    tm.TimeScale,
		"test_mode":     true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal test mode config: %w", err)
	}

	if err := r.mqtt.Publish(mqtt.TopicTimeConfig, 1, true, payload); err != nil {
		return fmt.Errorf("failed to publish test mode config: %w", err)
	}

	r.logger.Info("Published virtual time configuration",
		"topic", mqtt.TopicTimeConfig,
		"virtual_start", tm.VirtualStart,
		"time_scale", tm.TimeScale)
	return nil
}

// resetTestMode returns the agent to real time
func (r *Runner) resetTestMode() {
	if err := r.mqtt.Publish(mqtt.TopicTimeConfig, 1, true, []byte(`{"test_mode":false}`)); err != nil {
		r.logger.Warn("Failed to reset virtual time", "error", err)
	}
}

// SaveCapture writes the captured change events as JSON
func (r *Runner) SaveCapture(filename string) error {
	data, err := json.MarshalIndent(r.Messages(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal capture: %w", err)
	}
	return reporter.WriteFile(filename, data)
}

func describe(exp scenario.Expectation) string {
	if exp.Description != "" {
		return exp.Description
	}
	switch exp.Kind() {
	case "postgres":
		return exp.PostgresQuery
	case "redis":
		return fmt.Sprintf("%s = %s", exp.RedisField, exp.Expected)
	default:
		return fmt.Sprintf("payload %v", exp.Payload)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
