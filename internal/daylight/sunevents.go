package daylight

import (
	"fmt"
	"time"

	"github.com/sixdouglas/suncalc"
)

// SunEvents holds one day's twilight and sun crossing times.
// PrevDusk and NextDawn are optional neighbours used for the night window; when
// zero they are approximated by shifting Dusk and Dawn by a day.
type SunEvents struct {
	Dawn    time.Time
	Sunrise time.Time
	Sunset  time.Time
	Dusk    time.Time

	PrevDusk time.Time
	NextDawn time.Time
}

// SunEventProvider computes sun events for a position and date, all expressed in zone
type SunEventProvider interface {
	SunEvents(lat, lon float64, zone *time.Location, date time.Time) (*SunEvents, error)
}

// ProviderFunc adapts a plain function to SunEventProvider
type ProviderFunc func(lat, lon float64, zone *time.Location, date time.Time) (*SunEvents, error)

func (f ProviderFunc) SunEvents(lat, lon float64, zone *time.Location, date time.Time) (*SunEvents, error) {
	return f(lat, lon, zone, date)
}

// Check verifies that all four events are present and share one zone
func (e *SunEvents) Check() error {
	if e == nil || e.Dawn.IsZero() || e.Sunrise.IsZero() || e.Sunset.IsZero() || e.Dusk.IsZero() {
		return ErrSunEventsUnavailable
	}
	zone := e.Dawn.Location().String()
	for _, t := range []time.Time{e.Sunrise, e.Sunset, e.Dusk} {
		if t.Location().String() != zone {
			return fmt.Errorf("%w: %s vs %s", ErrTimezoneMismatch, zone, t.Location())
		}
	}
	return nil
}

// Ordered reports whether dawn <= sunrise <= sunset <= dusk
func (e *SunEvents) Ordered() bool {
	return !e.Sunrise.Before(e.Dawn) && !e.Sunset.Before(e.Sunrise) && !e.Dusk.Before(e.Sunset)
}

// In returns a copy of the events converted to zone
func (e SunEvents) In(zone *time.Location) SunEvents {
	convert := func(t time.Time) time.Time {
		if t.IsZero() {
			return t
		}
		return t.In(zone)
	}
	return SunEvents{
		Dawn:     convert(e.Dawn),
		Sunrise:  convert(e.Sunrise),
		Sunset:   convert(e.Sunset),
		Dusk:     convert(e.Dusk),
		PrevDusk: convert(e.PrevDusk),
		NextDawn: convert(e.NextDawn),
	}
}

func (e *SunEvents) previousDusk() time.Time {
	if !e.PrevDusk.IsZero() {
		return e.PrevDusk
	}
	return e.Dusk.Add(-day)
}

func (e *SunEvents) nextDawn() time.Time {
	if !e.NextDawn.IsZero() {
		return e.NextDawn
	}
	return e.Dawn.Add(day)
}

// SuncalcProvider computes civil twilight and sun crossings with suncalc
type SuncalcProvider struct{}

// SunEvents evaluates suncalc at local noon of date so the returned events
// belong to that calendar day in zone
func (SuncalcProvider) SunEvents(lat, lon float64, zone *time.Location, date time.Time) (events *SunEvents, err error) {
	if zone == nil {
		zone = time.Local
	}

	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("%w: suncalc: %v", ErrSunEventsUnavailable, r)
		}
	}()

	local := date.In(zone)
	noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, zone)
	times := suncalc.GetTimes(noon, lat, lon)

	pick := func(name suncalc.DayTimeName) (time.Time, error) {
		dt, ok := times[name]
		if !ok || dt.Value.IsZero() {
			return time.Time{}, fmt.Errorf("%w: no %s", ErrSunEventsUnavailable, name)
		}
		t := dt.Value.In(zone)
		// Polar day/night produces NaN-derived times far from the requested date
		if t.Sub(noon) > day || noon.Sub(t) > day {
			return time.Time{}, fmt.Errorf("%w: %s out of range", ErrSunEventsUnavailable, name)
		}
		return t, nil
	}

	result := &SunEvents{}
	if result.Dawn, err = pick(suncalc.Dawn); err != nil {
		return nil, err
	}
	if result.Sunrise, err = pick(suncalc.Sunrise); err != nil {
		return nil, err
	}
	if result.Sunset, err = pick(suncalc.Sunset); err != nil {
		return nil, err
	}
	if result.Dusk, err = pick(suncalc.Dusk); err != nil {
		return nil, err
	}

	if !result.Ordered() {
		return nil, fmt.Errorf("%w: events out of order", ErrSunEventsUnavailable)
	}

	return result, nil
}

// FixedProvider returns the same clock times on whatever date is requested.
// A non-nil Err is returned instead, mimicking an unavailable backend.
type FixedProvider struct {
	Dawn    time.Duration
	Sunrise time.Duration
	Sunset  time.Duration
	Dusk    time.Duration
	Err     error
}

func (p FixedProvider) SunEvents(lat, lon float64, zone *time.Location, date time.Time) (*SunEvents, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if zone == nil {
		zone = time.Local
	}
	local := date.In(zone)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return &SunEvents{
		Dawn:    midnight.Add(p.Dawn),
		Sunrise: midnight.Add(p.Sunrise),
		Sunset:  midnight.Add(p.Sunset),
		Dusk:    midnight.Add(p.Dusk),
	}, nil
}
