package wallpaper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/saaga0h/sunwall/internal/daylight"
	"github.com/saaga0h/sunwall/pkg/redis"
)

// State is what the agent remembers between decisions
type State struct {
	Path      string
	Image     int
	Period    daylight.Period
	Source    daylight.Source
	AppliedAt time.Time
	Cycle     daylight.CycleState
}

// StateStore persists the last applied wallpaper.
// Load returns nil, nil when nothing has been stored yet.
type StateStore interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// MemoryStateStore keeps state in process; used when Redis is disabled
type MemoryStateStore struct {
	mu    sync.RWMutex
	state *State
}

// NewMemoryStateStore creates an empty in-memory store
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (m *MemoryStateStore) Load(ctx context.Context) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == nil {
		return nil, nil
	}
	copied := *m.state
	return &copied, nil
}

func (m *MemoryStateStore) Save(ctx context.Context, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *state
	m.state = &copied
	return nil
}

// RedisStateStore keeps state in the hash wallpaper:state:{display}
type RedisStateStore struct {
	redis  redis.Client
	key    string
	logger *slog.Logger
}

// NewRedisStateStore creates a store for one display
func NewRedisStateStore(redisClient redis.Client, display string, logger *slog.Logger) *RedisStateStore {
	return &RedisStateStore{
		redis:  redisClient,
		key:    redis.WallpaperStateKey(display),
		logger: logger,
	}
}

// Hash field names
const (
	fieldPath        = "path"
	fieldImage       = "image"
	fieldPeriod      = "period"
	fieldSource      = "source"
	fieldAppliedAt   = "applied_at"
	fieldCycleIndex  = "cycle_index"
	fieldCyclePeriod = "cycle_period"
)

func (r *RedisStateStore) Load(ctx context.Context) (*State, error) {
	fields, err := r.redis.HGetAll(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	state := &State{
		Path:   fields[fieldPath],
		Source: daylight.Source(fields[fieldSource]),
	}

	if v, ok := fields[fieldImage]; ok {
		if state.Image, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s in %s: %w", fieldImage, r.key, err)
		}
	}

	if v, ok := fields[fieldPeriod]; ok {
		if state.Period, err = daylight.ParsePeriod(v); err != nil {
			return nil, fmt.Errorf("invalid %s in %s: %w", fieldPeriod, r.key, err)
		}
	}

	if v, ok := fields[fieldAppliedAt]; ok && v != "" {
		if state.AppliedAt, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, fmt.Errorf("invalid %s in %s: %w", fieldAppliedAt, r.key, err)
		}
	}

	if v, ok := fields[fieldCycleIndex]; ok {
		if state.Cycle.Index, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid %s in %s: %w", fieldCycleIndex, r.key, err)
		}
	}

	if v, ok := fields[fieldCyclePeriod]; ok {
		if state.Cycle.Period, err = daylight.ParsePeriod(v); err != nil {
			return nil, fmt.Errorf("invalid %s in %s: %w", fieldCyclePeriod, r.key, err)
		}
	}

	return state, nil
}

func (r *RedisStateStore) Save(ctx context.Context, state *State) error {
	values := map[string]interface{}{
		fieldPath:        state.Path,
		fieldImage:       strconv.Itoa(state.Image),
		fieldPeriod:      state.Period.String(),
		fieldSource:      string(state.Source),
		fieldAppliedAt:   state.AppliedAt.Format(time.RFC3339),
		fieldCycleIndex:  strconv.Itoa(state.Cycle.Index),
		fieldCyclePeriod: state.Cycle.Period.String(),
	}

	if err := r.redis.HSet(ctx, r.key, values); err != nil {
		return err
	}

	r.logger.Debug("Saved wallpaper state", "key", r.key, "image", state.Image)
	return nil
}
