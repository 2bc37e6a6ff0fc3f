package daylight

import (
	"errors"
	"time"
)

// HourlyEntry maps a clock time onto a period when no sun events are available
type HourlyEntry struct {
	Clock  time.Duration // offset from local midnight
	Period Period
	Slot   int // 0-based position within the period's cycle
	Image  int // 1-based position in the day's 16 image sequence
}

func clock(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

// HourlyTable is ordered by clock time. The 01:00 entry is the fixed anchor for
// the last night image; it covers 01:00 up to the 04:30 sunrise entry.
var HourlyTable = []HourlyEntry{
	{Clock: clock(1, 0), Period: Night, Slot: 15, Image: 16},
	{Clock: clock(4, 30), Period: Sunrise, Slot: 0, Image: 1},
	{Clock: clock(6, 15), Period: Sunrise, Slot: 1, Image: 2},
	{Clock: clock(6, 30), Period: Sunrise, Slot: 2, Image: 3},
	{Clock: clock(7, 30), Period: Sunrise, Slot: 3, Image: 4},
	{Clock: clock(10, 0), Period: Day, Slot: 0, Image: 5},
	{Clock: clock(12, 0), Period: Day, Slot: 1, Image: 6},
	{Clock: clock(14, 0), Period: Day, Slot: 2, Image: 7},
	{Clock: clock(16, 0), Period: Day, Slot: 3, Image: 8},
	{Clock: clock(17, 0), Period: Day, Slot: 4, Image: 9},
	{Clock: clock(18, 0), Period: Sunset, Slot: 0, Image: 10},
	{Clock: clock(18, 30), Period: Sunset, Slot: 1, Image: 11},
	{Clock: clock(18, 45), Period: Sunset, Slot: 2, Image: 12},
	{Clock: clock(19, 0), Period: Sunset, Slot: 3, Image: 13},
	{Clock: clock(20, 0), Period: Night, Slot: 11, Image: 14},
	{Clock: clock(22, 30), Period: Night, Slot: 12, Image: 15},
}

// HourlyEntryAt returns the latest table entry at or before now's time of day.
// Times before 01:00 belong to the previous evening's 22:30 entry.
func HourlyEntryAt(now time.Time) HourlyEntry {
	timeOfDay := clock(now.Hour(), now.Minute()) + time.Duration(now.Second())*time.Second

	match := HourlyTable[len(HourlyTable)-1]
	for _, entry := range HourlyTable {
		if entry.Clock > timeOfDay {
			break
		}
		match = entry
	}
	return match
}

// SelectImageHourly resolves the hourly table entry for now (local wall clock)
// and returns the image at the entry's 1-based position in its period's list.
// Fails with an *ImageIndexError when that list is too short.
func SelectImageHourly(lists ImageLists, now time.Time) (Selection, error) {
	if lists.Empty() {
		return Selection{}, ErrNoImages
	}

	entry := HourlyEntryAt(now)
	list := lists.For(entry.Period)
	if entry.Image > len(list) {
		return Selection{}, &ImageIndexError{
			Index:     entry.Image,
			Period:    entry.Period,
			Available: len(list),
		}
	}

	return Selection{
		Period:   entry.Period,
		Position: entry.Image - 1,
		Image:    list[entry.Image-1],
		Source:   SourceHourly,
	}, nil
}

// SelectImageHourlyWrapped is the lenient variant of SelectImageHourly: an
// entry whose position exceeds the list uses its slot modulo the list length.
// An empty period list falls through to the next period with images.
func SelectImageHourlyWrapped(lists ImageLists, now time.Time) (Selection, error) {
	sel, err := SelectImageHourly(lists, now)
	var indexErr *ImageIndexError
	if !errors.As(err, &indexErr) {
		return sel, err
	}

	entry := HourlyEntryAt(now)
	list := lists.For(entry.Period)
	if len(list) == 0 {
		return fallbackPeriod(lists, entry.Period, SourceHourly)
	}

	position := entry.Slot % len(list)
	return Selection{
		Period:   entry.Period,
		Position: position,
		Image:    list[position],
		Source:   SourceHourly,
	}, nil
}
