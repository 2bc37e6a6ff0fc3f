package wallpaper

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/saaga0h/sunwall/pkg/mqtt"
)

// TimeSource supplies the current time to the agent
type TimeSource interface {
	Now() time.Time
}

// Clock reports wall time, or a virtual time configured over MQTT so that a
// whole day of wallpaper changes can be replayed in minutes
type Clock struct {
	mu           sync.RWMutex
	virtual      bool
	virtualStart time.Time
	realStart    time.Time
	timeScale    int
	since        func(time.Time) time.Duration
	logger       *slog.Logger
}

// NewClock creates a clock running on real time
func NewClock(logger *slog.Logger) *Clock {
	return &Clock{
		realStart: time.Now(),
		timeScale: 1,
		since:     time.Since,
		logger:    logger,
	}
}

// ConfigureFromMQTT subscribes to virtual time configuration
func (c *Clock) ConfigureFromMQTT(mqttClient mqtt.Client) error {
	handler := func(msg mqtt.Message) {
		c.handleTimeConfig(msg.Payload())
	}

	return mqttClient.Subscribe(mqtt.TopicTimeConfig, 1, handler)
}

// handleTimeConfig processes a virtual time configuration message
func (c *Clock) handleTimeConfig(payload []byte) {
	var cfg struct {
		VirtualStart string `json:"virtual_start"`
		TimeScale    int    `json:"time_scale"`
		TestMode     bool   `json:"test_mode"`
	}

	if err := json.Unmarshal(payload, &cfg); err != nil {
		c.logger.Error("Failed to parse time config", "error", err)
		return
	}

	if !cfg.TestMode {
		c.logger.Info("Virtual time disabled")
		c.mu.Lock()
		c.virtual = false
		c.mu.Unlock()
		return
	}

	virtualStart, err := time.Parse(time.RFC3339, cfg.VirtualStart)
	if err != nil {
		c.logger.Error("Invalid virtual_start time", "error", err)
		return
	}

	scale := cfg.TimeScale
	if scale < 1 {
		scale = 1
	}

	c.mu.Lock()
	c.virtual = true
	c.virtualStart = virtualStart
	c.realStart = time.Now()
	c.timeScale = scale
	c.mu.Unlock()

	c.logger.Info("Virtual time configured",
		"virtual_start", cfg.VirtualStart,
		"time_scale", scale)
}

// Now returns the current time (real or virtual)
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.virtual {
		return time.Now()
	}

	realElapsed := c.since(c.realStart)
	return c.virtualStart.Add(realElapsed * time.Duration(c.timeScale))
}

// IsVirtual returns whether virtual time is active
func (c *Clock) IsVirtual() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.virtual
}
