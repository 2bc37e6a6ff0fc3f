package daylight

import "time"

// Sub-period windows used to interpolate image choice within a period.
const (
	// PreDawnLead is how long before dawn the sunrise sequence starts
	PreDawnLead = 30 * time.Minute

	// PostSunriseTail is how long after sunrise the sunrise sequence keeps progressing
	PostSunriseTail = 45 * time.Minute

	// NightDawnLead ends the night window this long before the next dawn
	NightDawnLead = PreDawnLead

	// day is the rollover used when adjacent-day sun events are unknown
	day = 24 * time.Hour
)

// Hour bands used when no astronomical data is available
const (
	SunriseStartHour = 5
	DayStartHour     = 7
	SunsetStartHour  = 17
	NightStartHour   = 19
)
