package daylight

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	zone, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load zone %s: %v", name, err)
	}
	return zone
}

// at builds a wall clock time on a fixed test date
func at(zone *time.Location, h, m int) time.Time {
	return time.Date(2024, time.June, 10, h, m, 0, 0, zone)
}

// testEvents: dawn 05:30, sunrise 06:00, sunset 18:00, dusk 18:45
func testEvents(zone *time.Location) *SunEvents {
	return &SunEvents{
		Dawn:    at(zone, 5, 30),
		Sunrise: at(zone, 6, 0),
		Sunset:  at(zone, 18, 0),
		Dusk:    at(zone, 18, 45),
	}
}

func testLocation() *Location {
	return &Location{Latitude: 60.1695, Longitude: 24.9354, Timezone: "UTC"}
}

func fullLists() ImageLists {
	seq := make([]int, 16)
	for i := range seq {
		seq[i] = i + 1
	}
	return ImageLists{Sunrise: seq, Day: seq, Sunset: seq, Night: seq}
}

// themeLists mirrors a typical 16 image theme
func themeLists() ImageLists {
	return ImageLists{
		Sunrise: []int{1, 2, 3, 4},
		Day:     []int{5, 6, 7, 8, 9},
		Sunset:  []int{10, 11, 12, 13},
		Night:   []int{14, 15, 16, 1},
	}
}
