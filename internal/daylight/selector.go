package daylight

import "time"

// Source tells which strategy produced a Selection
type Source string

const (
	SourceAstronomical Source = "astronomical"
	SourceHourly       Source = "hourly"
	SourceCycle        Source = "cycle"
)

// Selection is the outcome of choosing an image
type Selection struct {
	Period   Period
	Position int // 0-based position within the period's list
	Image    int
	Source   Source
}

// SelectImage picks the image for now by linear interpolation across the
// classified period's window:
//
//	sunrise: [dawn-30m, sunrise+45m]
//	day:     [sunrise, sunset]
//	sunset:  [sunset, dusk]
//	night:   [dusk, next dawn-30m], spanning midnight
func SelectImage(lists ImageLists, now time.Time, events *SunEvents) (Selection, error) {
	if lists.Empty() {
		return Selection{}, ErrNoImages
	}
	if err := events.Check(); err != nil {
		return Selection{}, err
	}

	ev := events.In(events.Dawn.Location())
	now = now.In(ev.Dawn.Location())

	period := classifyEvents(now, &ev)
	list := lists.For(period)
	if len(list) == 0 {
		return fallbackPeriod(lists, period, SourceAstronomical)
	}

	start, end := periodWindow(period, now, &ev)
	position := ImageSpacing(start, end, len(list), now) - 1

	return Selection{
		Period:   period,
		Position: position,
		Image:    list[position],
		Source:   SourceAstronomical,
	}, nil
}

func periodWindow(p Period, now time.Time, ev *SunEvents) (time.Time, time.Time) {
	switch p {
	case Sunrise:
		return ev.Dawn.Add(-PreDawnLead), ev.Sunrise.Add(PostSunriseTail)
	case Day:
		return ev.Sunrise, ev.Sunset
	case Sunset:
		return ev.Sunset, ev.Dusk
	default:
		if now.Before(ev.Dawn) {
			return ev.previousDusk(), ev.Dawn.Add(-NightDawnLead)
		}
		return ev.Dusk, ev.nextDawn().Add(-NightDawnLead)
	}
}

// fallbackPeriod selects the first image of the next period with images
func fallbackPeriod(lists ImageLists, p Period, source Source) (Selection, error) {
	next, ok := lists.firstNonEmpty(p)
	if !ok {
		return Selection{}, ErrNoImages
	}
	return Selection{
		Period:   next,
		Position: 0,
		Image:    lists.For(next)[0],
		Source:   source,
	}, nil
}
