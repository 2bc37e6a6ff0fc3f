package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/saaga0h/sunwall/pkg/config"
)

// ErrNotConnected is returned by queries issued before Connect
var ErrNotConnected = errors.New("postgres client not connected")

const (
	connectAttempts = 3
	connectBackoff  = 2 * time.Second
)

// PostgresClient holds the connection pool for wallpaper history
type PostgresClient struct {
	db     *sql.DB
	config *config.Config
	logger *slog.Logger
}

// NewClient creates a Postgres client. Connect must be called before use.
func NewClient(cfg *config.Config, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresClient{
		config: cfg,
		logger: logger.With("host", cfg.PostgresHost, "database", cfg.PostgresDB),
	}
}

// Connect opens the pool and pings it, retrying a few times while the server
// is still starting
func (c *PostgresClient) Connect(ctx context.Context) error {
	db, err := sql.Open("postgres", c.config.PostgresConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	// One row per wallpaper change needs almost nothing
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	for attempt := 1; ; attempt++ {
		c.logger.Info("Connecting to Postgres", "attempt", attempt)

		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			db.Close()
			return fmt.Errorf("failed to ping postgres after %d attempts: %w", attempt, err)
		}

		c.logger.Warn("Postgres not reachable, retrying", "error", err, "backoff", connectBackoff)
		select {
		case <-time.After(connectBackoff):
		case <-ctx.Done():
			db.Close()
			return fmt.Errorf("connecting to postgres: %w", ctx.Err())
		}
	}

	c.db = db
	c.logger.Info("Connected to Postgres")
	return nil
}

// Disconnect closes the pool. It is safe to call when not connected.
func (c *PostgresClient) Disconnect() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("failed to close postgres connection: %w", err)
	}

	c.logger.Info("Disconnected from Postgres")
	return nil
}

func (c *PostgresClient) IsConnected() bool {
	return c.db != nil
}

// Exec runs a statement that returns no rows
func (c *PostgresClient) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db.ExecContext(ctx, query, args...)
}
