package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saaga0h/sunwall/pkg/postgres"
)

// History records applied wallpapers
type History interface {
	Record(ctx context.Context, event *ChangeEvent) error
}

const createHistoryTable = `
	CREATE TABLE IF NOT EXISTS wallpaper_changes (
		id         UUID PRIMARY KEY,
		display    TEXT NOT NULL,
		theme      TEXT NOT NULL,
		image      INTEGER NOT NULL,
		path       TEXT NOT NULL,
		period     TEXT NOT NULL,
		source     TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL
	)
`

// PostgresHistory appends rows to wallpaper_changes
type PostgresHistory struct {
	pg     postgres.Client
	logger *slog.Logger
}

// NewPostgresHistory creates a history recorder on a connected client
func NewPostgresHistory(pgClient postgres.Client, logger *slog.Logger) *PostgresHistory {
	return &PostgresHistory{pg: pgClient, logger: logger}
}

// EnsureSchema creates the history table when missing
func (h *PostgresHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.pg.Exec(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create wallpaper_changes table: %w", err)
	}
	return nil
}

// Record stores a change event
func (h *PostgresHistory) Record(ctx context.Context, event *ChangeEvent) error {
	query := `
		INSERT INTO wallpaper_changes (
			id, display, theme, image, path, period, source, applied_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	appliedAt, err := time.Parse(time.RFC3339, event.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid event timestamp %q: %w", event.Timestamp, err)
	}

	_, err = h.pg.Exec(ctx, query,
		event.EventID,
		event.Display,
		event.Theme,
		event.Image,
		event.Path,
		event.Period,
		event.Source,
		appliedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wallpaper change: %w", err)
	}

	h.logger.Debug("Wallpaper change recorded", "id", event.EventID, "image", event.Image)
	return nil
}
