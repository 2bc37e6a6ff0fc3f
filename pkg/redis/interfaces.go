package redis

import "context"

// Client is the subset of Redis the agent needs to persist wallpaper state.
// Fakes implement it in tests.
type Client interface {
	// HSet writes several hash fields at once
	HSet(ctx context.Context, key string, values map[string]interface{}) error

	// HGetAll returns an empty map for a missing key
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}
