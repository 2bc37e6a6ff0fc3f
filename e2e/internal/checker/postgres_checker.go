package checker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

// PostgresChecker runs single value queries against the history table
type PostgresChecker struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresChecker opens and pings a connection
func NewPostgresChecker(ctx context.Context, connStr string, logger *slog.Logger) (*PostgresChecker, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresChecker{db: db, logger: logger}, nil
}

// Check executes query and matches its single result against expected
func (p *PostgresChecker) Check(ctx context.Context, query string, expected interface{}) (bool, string, interface{}) {
	p.logger.Debug("Executing query", "query", query)

	var result interface{}
	if err := p.db.QueryRowContext(ctx, query).Scan(&result); err != nil {
		return false, fmt.Sprintf("query failed: %v", err), nil
	}

	if b, ok := result.([]byte); ok {
		result = string(b)
	}

	if matches, reason := MatchesExpectation(result, expected); !matches {
		return false, reason, result
	}
	return true, "", result
}

// Close closes the database connection
func (p *PostgresChecker) Close() error {
	return p.db.Close()
}
