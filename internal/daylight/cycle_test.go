package daylight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	assert.Equal(t, 1, Advance(0, 4))
	assert.Equal(t, 3, Advance(2, 4))
	assert.Equal(t, 0, Advance(3, 4))
	assert.Equal(t, 0, Advance(0, 1))
	assert.Equal(t, 0, Advance(5, 0))
}

func TestNextInCycle_WrapsWithinPeriod(t *testing.T) {
	lists := themeLists()
	state := CycleState{Index: 0, Period: Sunset}

	var shown []int
	for i := 0; i < 5; i++ {
		sel, next, err := NextInCycle(lists, state)
		require.NoError(t, err)
		assert.Equal(t, Sunset, sel.Period)
		assert.Equal(t, SourceCycle, sel.Source)
		shown = append(shown, sel.Image)
		state = next
	}

	assert.Equal(t, []int{10, 11, 12, 13, 10}, shown)
	assert.Equal(t, CycleState{Index: 1, Period: Sunset}, state)
}

func TestNextInCycle_SwitchesFromEmptyPeriod(t *testing.T) {
	lists := ImageLists{Sunrise: []int{1, 2}, Night: []int{14, 15}}

	sel, next, err := NextInCycle(lists, CycleState{Index: 3, Period: Day})
	require.NoError(t, err)
	assert.Equal(t, Night, sel.Period)
	assert.Equal(t, 14, sel.Image)
	assert.Equal(t, CycleState{Index: 1, Period: Night}, next)

	// Rotation wraps from night back to sunrise
	lists.Night = nil
	sel, next, err = NextInCycle(lists, CycleState{Index: 0, Period: Night})
	require.NoError(t, err)
	assert.Equal(t, Sunrise, sel.Period)
	assert.Equal(t, 1, sel.Image)
	assert.Equal(t, Sunrise, next.Period)
}

func TestActivePeriod(t *testing.T) {
	lists := ImageLists{Sunrise: []int{1, 2}, Night: []int{14, 15}}

	assert.Equal(t, Sunrise, lists.ActivePeriod(Sunrise))
	assert.Equal(t, Night, lists.ActivePeriod(Day))
	assert.Equal(t, Night, lists.ActivePeriod(Sunset))
	assert.Equal(t, Night, lists.ActivePeriod(Night))

	// A state saved for the stand-in period continues where it stopped
	state := CycleState{Index: 0, Period: Day}
	var shown []int
	for i := 0; i < 3; i++ {
		sel, next, err := NextInCycle(lists, state)
		require.NoError(t, err)
		shown = append(shown, sel.Image)
		state = next
	}
	assert.Equal(t, []int{14, 15, 14}, shown)
}

func TestNextInCycle_StaleIndexResets(t *testing.T) {
	sel, next, err := NextInCycle(themeLists(), CycleState{Index: 42, Period: Day})
	require.NoError(t, err)
	assert.Equal(t, 5, sel.Image)
	assert.Equal(t, 1, next.Index)
}

func TestNextInCycle_NoImages(t *testing.T) {
	state := CycleState{Index: 2, Period: Day}
	_, next, err := NextInCycle(ImageLists{}, state)
	assert.ErrorIs(t, err, ErrNoImages)
	assert.Equal(t, state, next)
}

func TestPeriodRotation(t *testing.T) {
	assert.Equal(t, Day, Sunrise.Next())
	assert.Equal(t, Sunset, Day.Next())
	assert.Equal(t, Night, Sunset.Next())
	assert.Equal(t, Sunrise, Night.Next())

	for _, p := range RotationOrder {
		parsed, err := ParsePeriod(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePeriod("dusk")
	assert.Error(t, err)
}
