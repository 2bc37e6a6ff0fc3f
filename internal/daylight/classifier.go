package daylight

import "time"

// ClassifyByHour maps an hour of day (0-23) onto fixed clock bands
func ClassifyByHour(hour int) Period {
	switch {
	case hour >= 0 && hour < SunriseStartHour:
		return Night
	case hour >= SunriseStartHour && hour < DayStartHour:
		return Sunrise
	case hour >= DayStartHour && hour < SunsetStartHour:
		return Day
	case hour >= SunsetStartHour && hour < NightStartHour:
		return Sunset
	default:
		return Night
	}
}

// Classify returns the period that now falls in. It never fails: an incomplete
// location or unusable sun events degrade to ClassifyByHour.
//
// now is converted into the location's zone and the events into the same zone
// before any comparison.
func Classify(now time.Time, events *SunEvents, loc *Location) Period {
	if !loc.Complete() {
		return ClassifyByHour(localNow(now, loc).Hour())
	}

	local := loc.localize(now)
	if err := events.Check(); err != nil {
		return ClassifyByHour(local.Hour())
	}

	normalized := events.In(local.Location())
	return classifyEvents(local, &normalized)
}

// classifyEvents compares now against the boundaries. Dawn and sunrise
// coinciding leaves the sunrise band empty, which is accepted.
func classifyEvents(now time.Time, ev *SunEvents) Period {
	switch {
	case now.Before(ev.Dawn):
		return Night
	case now.Before(ev.Sunrise):
		return Sunrise
	case now.Before(ev.Sunset):
		return Day
	case !now.After(ev.Dusk):
		return Sunset
	default:
		return Night
	}
}
