package postgres

import (
	"context"
	"database/sql"
)

// Client is the Postgres surface used for wallpaper history and health
// reporting. Fakes implement it in tests.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect() error

	// Exec runs a statement that returns no rows
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

	IsConnected() bool

	// HealthCheck never fails on an unreachable server; it reports it instead
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}
