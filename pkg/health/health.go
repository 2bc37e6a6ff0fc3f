package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/postgres"
	"github.com/saaga0h/sunwall/pkg/redis"
)

const pingTimeout = 2 * time.Second

// Service status values reported by the detailed handler
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"
)

// Checker provides health check functionality for the agent.
// Any client may be nil when its backing service is switched off.
type Checker struct {
	mqtt     mqtt.Client
	redis    redis.Client
	postgres postgres.Client
	logger   *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies
func NewChecker(mqttClient mqtt.Client, redisClient redis.Client, pgClient postgres.Client, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:     mqttClient,
		redis:    redisClient,
		postgres: pgClient,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	Redis    string `json:"redis"`
	MQTT     string `json:"mqtt"`
	Postgres string `json:"postgres"`
}

// Register mounts /health and /health/detailed on mux
func (h *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HandlerFunc())
	mux.HandleFunc("/health/detailed", h.DetailedHandlerFunc())
}

// HandlerFunc returns 200 while the process is alive without checking dependencies
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.write(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		})
	}
}

// DetailedHandlerFunc returns a handler that reports every configured dependency.
// Disabled services never degrade the overall status.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{
			MQTT:     StatusDisabled,
			Redis:    StatusDisabled,
			Postgres: StatusDisabled,
		}

		if h.mqtt != nil {
			services.MQTT = connState(h.mqtt.IsConnected())
		}

		// Redis is not pinged here to keep the check fast
		if h.redis != nil {
			services.Redis = StatusConnected
		}

		if h.postgres != nil {
			services.Postgres = h.postgresState(r.Context())
		}

		status := "healthy"
		statusCode := http.StatusOK

		if services.Redis == StatusDisconnected || services.MQTT == StatusDisconnected || services.Postgres == StatusDisconnected {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		h.write(w, statusCode, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		})
	}
}

func (h *Checker) write(w http.ResponseWriter, code int, response HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", "error", err)
	}
}

func (h *Checker) postgresState(ctx context.Context) string {
	if !h.postgres.IsConnected() {
		return StatusDisconnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status, err := h.postgres.HealthCheck(ctx)
	if err != nil || !status.Connected {
		h.logger.Warn("Postgres health check failed", "error", err, "status", status)
		return StatusDisconnected
	}
	return StatusConnected
}

func connState(connected bool) string {
	if connected {
		return StatusConnected
	}
	return StatusDisconnected
}
