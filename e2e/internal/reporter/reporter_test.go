package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saaga0h/sunwall/e2e/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *scenario.TestResult {
	start := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	return &scenario.TestResult{
		Scenario: &scenario.Scenario{
			Name:     "Dawn in Helsinki",
			Display:  "office",
			TestMode: scenario.TestModeConfig{VirtualStart: "2024-06-10T02:00:00+03:00", TimeScale: 600},
		},
		StartTime:   start,
		EndTime:     start.Add(90 * time.Second),
		PassedCount: 1,
		FailedCount: 1,
		Expectations: []scenario.ExpectationResult{
			{Expectation: scenario.Expectation{Time: 60, Payload: map[string]interface{}{"period": "night"}}, Passed: true},
			{Expectation: scenario.Expectation{Time: 3600, RedisField: "period", Expected: "sunrise"}, Reason: `expected sunrise, got night`, Actual: "night"},
		},
	}
}

func TestGenerateTimeline(t *testing.T) {
	out := GenerateTimeline(sampleResult(), []TimelineEvent{
		{Elapsed: 0, Layer: "clock", Description: "virtual time"},
		{Elapsed: 0.5, Layer: "mqtt", Description: "still night", IsCheck: true, Success: true},
		{Elapsed: 30, Layer: "redis", Description: "period = sunrise", IsCheck: true},
	})

	assert.Contains(t, out, "Scenario: Dawn in Helsinki")
	assert.Contains(t, out, "Display: office  Virtual start: 2024-06-10T02:00:00+03:00  Scale: 600x")
	assert.Contains(t, out, "Duration: 1m 30.0s")
	assert.Contains(t, out, "✓ mqtt")
	assert.Contains(t, out, "✗ redis")
	assert.Contains(t, out, "redis at 3600s: expected sunrise, got night (actual: night)")
	assert.Contains(t, out, "1 EXPECTATION(S) FAILED")
}

func TestSaveSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries", "dawn.json")
	require.NoError(t, SaveSummary(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(1), decoded["failed_count"])
}
