package daylight

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name           string
		lat, lon       float64
		city, tz       string
		wantIncomplete bool
		wantTZ         string
		wantLat        float64
	}{
		{name: "coordinates only", lat: 10, lon: 20, wantTZ: "", wantLat: 10},
		{name: "city only", lat: nan, lon: nan, city: "Helsinki", wantTZ: "Europe/Helsinki", wantLat: 60.1695},
		{name: "city fills timezone", lat: 60, lon: 25, city: "helsinki", wantTZ: "Europe/Helsinki", wantLat: 60},
		{name: "explicit timezone wins", lat: nan, lon: nan, city: "Paris", tz: "UTC", wantTZ: "UTC", wantLat: 48.8566},
		{name: "unknown city", lat: nan, lon: nan, city: "Atlantis", wantIncomplete: true},
		{name: "nothing", lat: nan, lon: nan, wantIncomplete: true},
		{name: "timezone only", lat: nan, lon: nan, tz: "Asia/Tokyo", wantIncomplete: true, wantTZ: "Asia/Tokyo"},
		{name: "latitude only", lat: 10, lon: nan, wantIncomplete: true},
		{name: "out of range", lat: 95, lon: 0, wantIncomplete: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := ResolveLocation(tt.lat, tt.lon, tt.city, tt.tz)
			require.NotNil(t, loc)
			assert.Equal(t, tt.wantTZ, loc.Timezone)
			if tt.wantIncomplete {
				assert.False(t, loc.Complete())
				return
			}
			assert.Equal(t, tt.wantLat, loc.Latitude)
			assert.True(t, loc.Complete())
		})
	}
}

func TestLocationZone(t *testing.T) {
	var missing *Location
	zone, err := missing.Zone()
	require.NoError(t, err)
	assert.Equal(t, time.Local, zone)

	zone, err = (&Location{Timezone: "Asia/Tokyo"}).Zone()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", zone.String())

	_, err = (&Location{Timezone: "Not/AZone"}).Zone()
	assert.Error(t, err)
}
