package postgres

import (
	"context"
	"time"
)

// HealthStatus describes the history database as seen by the health endpoint
type HealthStatus struct {
	Connected  bool          `json:"connected"`
	Database   string        `json:"database"`
	Latency    time.Duration `json:"latency_ns"`
	OpenConns  int           `json:"open_conns"`
	InUseConns int           `json:"in_use_conns"`
	Error      string        `json:"error,omitempty"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// HealthCheck pings the pool and reports its usage. A failed ping is reported
// in the status, not as an error.
func (c *PostgresClient) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	status := &HealthStatus{
		Database:  c.config.PostgresDB,
		CheckedAt: time.Now(),
	}

	if c.db == nil {
		status.Error = "not connected"
		return status, nil
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	status.Latency = time.Since(start)

	stats := c.db.Stats()
	status.OpenConns = stats.OpenConnections
	status.InUseConns = stats.InUse

	if err != nil {
		status.Error = err.Error()
		return status, nil
	}

	status.Connected = true
	return status, nil
}
