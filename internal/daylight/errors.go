package daylight

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImages is returned when every period's image list is empty
	ErrNoImages = errors.New("No images available in any time-of-day category")

	// ErrImageIndexExceeded is the sentinel wrapped by ImageIndexError
	ErrImageIndexExceeded = errors.New("image index exceeds available images")

	// ErrSunEventsUnavailable signals that no usable sun events exist (polar day/night,
	// calculation failure). Never surfaced by the classifier.
	ErrSunEventsUnavailable = errors.New("sun events unavailable")

	// ErrTimezoneMismatch signals sun events expressed in different zones
	ErrTimezoneMismatch = errors.New("sun events are not in a single timezone")
)

// ImageIndexError reports a requested image index beyond a period's list
type ImageIndexError struct {
	Index     int
	Period    Period
	Available int
}

func (e *ImageIndexError) Error() string {
	return fmt.Sprintf("Image index %d exceeds available images", e.Index)
}

func (e *ImageIndexError) Unwrap() error {
	return ErrImageIndexExceeded
}
