package daylight

import (
	"fmt"
	"strings"
)

// Period is the coarse time-of-day classification driving which image list is active
type Period int

const (
	Night Period = iota
	Sunrise
	Day
	Sunset
)

// RotationOrder is the fixed order used when stepping from one period to the next
var RotationOrder = []Period{Sunrise, Day, Sunset, Night}

func (p Period) String() string {
	switch p {
	case Night:
		return "night"
	case Sunrise:
		return "sunrise"
	case Day:
		return "day"
	case Sunset:
		return "sunset"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// ParsePeriod converts a period name back into a Period
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "night":
		return Night, nil
	case "sunrise":
		return Sunrise, nil
	case "day":
		return Day, nil
	case "sunset":
		return Sunset, nil
	default:
		return Night, fmt.Errorf("unknown period %q", s)
	}
}

// Next returns the period following p in RotationOrder, wrapping from night to sunrise
func (p Period) Next() Period {
	for i, candidate := range RotationOrder {
		if candidate == p {
			return RotationOrder[(i+1)%len(RotationOrder)]
		}
	}
	return Sunrise
}

// ImageLists holds a theme's four ordered image sequences.
// Position in a list is the chronological sub-position within its period.
type ImageLists struct {
	Sunrise []int
	Day     []int
	Sunset  []int
	Night   []int
}

// For returns the list belonging to a period
func (l ImageLists) For(p Period) []int {
	switch p {
	case Sunrise:
		return l.Sunrise
	case Day:
		return l.Day
	case Sunset:
		return l.Sunset
	default:
		return l.Night
	}
}

// Empty reports whether every list is empty
func (l ImageLists) Empty() bool {
	return len(l.Sunrise) == 0 && len(l.Day) == 0 && len(l.Sunset) == 0 && len(l.Night) == 0
}

// ActivePeriod returns the period whose list is actually shown for p: p itself,
// or the next period in RotationOrder that has images when p's list is empty
func (l ImageLists) ActivePeriod(p Period) Period {
	if len(l.For(p)) > 0 {
		return p
	}
	active, _ := l.firstNonEmpty(p.Next())
	return active
}

// firstNonEmpty walks RotationOrder starting at p (inclusive) and returns the
// first period with images
func (l ImageLists) firstNonEmpty(p Period) (Period, bool) {
	candidate := p
	for range RotationOrder {
		if len(l.For(candidate)) > 0 {
			return candidate, true
		}
		candidate = candidate.Next()
	}
	return p, false
}
