package daylight

import (
	"math"
	"time"
)

// PeriodDuration returns end - start in seconds. Negative when start is after end.
func PeriodDuration(start, end time.Time) float64 {
	return end.Sub(start).Seconds()
}

// ImageSpacing maps now onto a 1-based image position when numImages images are
// spread evenly over [start, end]. Positions clamp to [1, numImages]; a
// zero-length or inverted window yields 1.
func ImageSpacing(start, end time.Time, numImages int, now time.Time) int {
	if numImages < 1 {
		return 1
	}

	total := PeriodDuration(start, end)
	if total <= 0 {
		return 1
	}

	fraction := PeriodDuration(start, now) / total
	position := 1 + int(math.Round(fraction*float64(numImages-1)))

	if position < 1 {
		return 1
	}
	if position > numImages {
		return numImages
	}
	return position
}
