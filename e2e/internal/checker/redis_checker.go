package checker

import (
	"context"
	"fmt"

	"github.com/saaga0h/sunwall/e2e/internal/scenario"
	"github.com/saaga0h/sunwall/pkg/redis"
)

// CheckRedisExpectation validates a field of the display's wallpaper state hash
func CheckRedisExpectation(ctx context.Context, client redis.Client, display string, exp scenario.Expectation) (bool, string, interface{}) {
	if client == nil {
		return false, "redis checks are disabled", nil
	}

	key := redis.WallpaperStateKey(display)
	fields, err := client.HGetAll(ctx, key)
	if err != nil {
		return false, fmt.Sprintf("Redis error: %v", err), nil
	}

	value, ok := fields[exp.RedisField]
	if !ok {
		return false, fmt.Sprintf("key %q field %q not found in Redis", key, exp.RedisField), nil
	}

	if matches, reason := MatchesExpectation(value, exp.Expected); !matches {
		return false, reason, value
	}

	return true, "", value
}
