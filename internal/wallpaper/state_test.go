package wallpaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saaga0h/sunwall/internal/daylight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *State {
	return &State{
		Path:      "/themes/lakeside/lakeside_11.jpg",
		Image:     11,
		Period:    daylight.Sunset,
		Source:    daylight.SourceAstronomical,
		AppliedAt: time.Date(2024, time.June, 10, 18, 20, 0, 0, time.UTC),
		Cycle:     daylight.CycleState{Index: 2, Period: daylight.Sunset},
	}
}

func TestMemoryStateStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStateStore()

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)

	saved := sampleState()
	require.NoError(t, store.Save(ctx, saved))

	// Stored state is a copy
	saved.Image = 99
	state, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, state.Image)
}

func TestRedisStateStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := NewRedisStateStore(client, "office", testLogger())

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state, "empty hash means nothing applied yet")

	require.NoError(t, store.Save(ctx, sampleState()))

	hash := client.hashes["wallpaper:state:office"]
	assert.Equal(t, "sunset", hash["period"])
	assert.Equal(t, "2024-06-10T18:20:00Z", hash["applied_at"])

	state, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, sampleState().Path, state.Path)
	assert.Equal(t, daylight.Sunset, state.Period)
	assert.Equal(t, daylight.CycleState{Index: 2, Period: daylight.Sunset}, state.Cycle)
	assert.True(t, state.AppliedAt.Equal(sampleState().AppliedAt))
}

func TestRedisStateStore_InvalidFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"image", "image", "eleven"},
		{"period", "period", "dusk"},
		{"applied at", "applied_at", "yesterday"},
		{"cycle index", "cycle_index", "x"},
		{"cycle period", "cycle_period", "noon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			client := newFakeRedis()
			store := NewRedisStateStore(client, "office", testLogger())
			require.NoError(t, store.Save(ctx, sampleState()))

			client.hashes["wallpaper:state:office"][tt.field] = tt.value

			_, err := store.Load(ctx)
			assert.Error(t, err)
		})
	}
}

func TestRedisStateStore_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	store := NewRedisStateStore(client, "office", testLogger())

	_, err := store.Load(ctx)
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, sampleState()))
}
