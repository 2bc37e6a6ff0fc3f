package daylight

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Location is a geographic position with the IANA zone used for all comparisons
type Location struct {
	Latitude  float64
	Longitude float64
	Timezone  string
	City      string
}

type city struct {
	lat, lon float64
	tz       string
}

// cities resolves a location configured by name only
var cities = map[string]city{
	"amsterdam":     {52.3676, 4.9041, "Europe/Amsterdam"},
	"berlin":        {52.5200, 13.4050, "Europe/Berlin"},
	"buenos aires":  {-34.6037, -58.3816, "America/Argentina/Buenos_Aires"},
	"cape town":     {-33.9249, 18.4241, "Africa/Johannesburg"},
	"chicago":       {41.8781, -87.6298, "America/Chicago"},
	"helsinki":      {60.1695, 24.9354, "Europe/Helsinki"},
	"london":        {51.5074, -0.1278, "Europe/London"},
	"los angeles":   {34.0522, -118.2437, "America/Los_Angeles"},
	"madrid":        {40.4168, -3.7038, "Europe/Madrid"},
	"mexico city":   {19.4326, -99.1332, "America/Mexico_City"},
	"moscow":        {55.7558, 37.6173, "Europe/Moscow"},
	"mumbai":        {19.0760, 72.8777, "Asia/Kolkata"},
	"new york":      {40.7128, -74.0060, "America/New_York"},
	"paris":         {48.8566, 2.3522, "Europe/Paris"},
	"quito":         {-0.1807, -78.4678, "America/Guayaquil"},
	"reykjavik":     {64.1466, -21.9426, "Atlantic/Reykjavik"},
	"san francisco": {37.7749, -122.4194, "America/Los_Angeles"},
	"sao paulo":     {-23.5505, -46.6333, "America/Sao_Paulo"},
	"singapore":     {1.3521, 103.8198, "Asia/Singapore"},
	"stockholm":     {59.3293, 18.0686, "Europe/Stockholm"},
	"sydney":        {-33.8688, 151.2093, "Australia/Sydney"},
	"tokyo":         {35.6762, 139.6503, "Asia/Tokyo"},
	"tromso":        {69.6492, 18.9553, "Europe/Oslo"},
}

// ResolveLocation builds a Location from possibly partial settings.
// NaN coordinates mean "not set". A known city name fills in missing
// coordinates and timezone. The result is never nil; when Complete reports
// false it still carries the timezone for clock-hour fallbacks.
func ResolveLocation(lat, lon float64, cityName, timezone string) *Location {
	name := strings.ToLower(strings.TrimSpace(cityName))

	if c, ok := cities[name]; ok {
		if math.IsNaN(lat) || math.IsNaN(lon) {
			lat, lon = c.lat, c.lon
		}
		if timezone == "" {
			timezone = c.tz
		}
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Timezone:  timezone,
		City:      cityName,
	}
}

// Complete reports whether the location can be used for astronomical calculation
func (l *Location) Complete() bool {
	if l == nil {
		return false
	}
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Zone loads the location's timezone. An empty name is the process-local zone.
func (l *Location) Zone() (*time.Location, error) {
	if l == nil || l.Timezone == "" {
		return time.Local, nil
	}
	zone, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", l.Timezone, err)
	}
	return zone, nil
}

// localize converts t into the location's zone, keeping t unchanged when the
// zone cannot be loaded
func (l *Location) localize(t time.Time) time.Time {
	zone, err := l.Zone()
	if err != nil {
		return t
	}
	return t.In(zone)
}
