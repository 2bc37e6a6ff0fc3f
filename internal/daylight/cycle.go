package daylight

// CycleState is the persisted position of sequential cycling
type CycleState struct {
	Index  int
	Period Period
}

// Advance returns the index following current in a list of length items, wrapping to 0
func Advance(current, length int) int {
	if length <= 0 {
		return 0
	}
	return (current + 1) % length
}

// NextInCycle returns the image at state's index and the state to persist for
// the next call. An empty period list switches to the next period with images
// in RotationOrder, starting at index 0; the returned state carries the new period.
func NextInCycle(lists ImageLists, state CycleState) (Selection, CycleState, error) {
	if lists.Empty() {
		return Selection{}, state, ErrNoImages
	}

	period := state.Period
	index := state.Index

	if active := lists.ActivePeriod(period); active != period {
		period = active
		index = 0
	}

	list := lists.For(period)
	if index < 0 || index >= len(list) {
		index = 0
	}

	sel := Selection{
		Period:   period,
		Position: index,
		Image:    list[index],
		Source:   SourceCycle,
	}
	return sel, CycleState{Index: Advance(index, len(list)), Period: period}, nil
}
