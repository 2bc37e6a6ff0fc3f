package daylight

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrLocationIncomplete means no usable coordinates were configured
var ErrLocationIncomplete = errors.New("location incomplete")

// Engine ties a SunEventProvider to the classifier and selectors and applies
// the fallback chain: astronomical -> hourly table -> clock-hour bands.
type Engine struct {
	provider SunEventProvider
	logger   *slog.Logger
}

// NewEngine creates an engine. A nil provider disables astronomical calculation.
func NewEngine(provider SunEventProvider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		provider: provider,
		logger:   logger,
	}
}

// Events computes today's sun events for loc, normalised to loc's zone, with the
// neighbouring days' dusk and dawn filled in when the provider has them
func (e *Engine) Events(now time.Time, loc *Location) (*SunEvents, error) {
	if !loc.Complete() {
		return nil, ErrLocationIncomplete
	}
	if e.provider == nil {
		return nil, fmt.Errorf("%w: no provider", ErrSunEventsUnavailable)
	}

	zone, err := loc.Zone()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSunEventsUnavailable, err)
	}
	local := now.In(zone)

	events, err := e.lookup(loc, zone, local)
	if err != nil {
		return nil, err
	}

	if prev, err := e.lookup(loc, zone, local.AddDate(0, 0, -1)); err == nil {
		events.PrevDusk = prev.Dusk
	}
	if next, err := e.lookup(loc, zone, local.AddDate(0, 0, 1)); err == nil {
		events.NextDawn = next.Dawn
	}

	normalized := events.In(zone)
	return &normalized, nil
}

// lookup calls the provider, turning panics and unusable results into errors
func (e *Engine) lookup(loc *Location, zone *time.Location, date time.Time) (events *SunEvents, err error) {
	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("%w: provider panic: %v", ErrSunEventsUnavailable, r)
		}
	}()

	events, err = e.provider.SunEvents(loc.Latitude, loc.Longitude, zone, date)
	if err != nil {
		if !errors.Is(err, ErrSunEventsUnavailable) {
			err = fmt.Errorf("%w: %v", ErrSunEventsUnavailable, err)
		}
		return nil, err
	}
	if err := events.Check(); err != nil {
		return nil, err
	}
	return events, nil
}

// Classify returns the current period. It never fails.
func (e *Engine) Classify(now time.Time, loc *Location) Period {
	events, err := e.Events(now, loc)
	if err != nil {
		local := localNow(now, loc)
		e.logger.Debug("Classifying by clock hour", "reason", err, "hour", local.Hour())
		return ClassifyByHour(local.Hour())
	}
	return Classify(now, events, loc)
}

// Select chooses an image astronomically, or from the hourly table when sun
// events are unavailable. Theme data errors are returned to the caller.
func (e *Engine) Select(lists ImageLists, now time.Time, loc *Location) (Selection, error) {
	if lists.Empty() {
		return Selection{}, ErrNoImages
	}

	events, err := e.Events(now, loc)
	if err != nil {
		e.logger.Debug("Falling back to hourly table", "reason", err)
		return SelectImageHourly(lists, localNow(now, loc))
	}

	return SelectImage(lists, now, events)
}

func localNow(now time.Time, loc *Location) time.Time {
	if loc == nil {
		return now
	}
	return loc.localize(now)
}
