package reporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/saaga0h/sunwall/e2e/internal/scenario"
)

// TimelineEvent represents a single event in the timeline
type TimelineEvent struct {
	Elapsed     float64
	Layer       string
	Description string
	Success     bool // ignored unless IsCheck
	IsCheck     bool
}

// GenerateTimeline creates a human-readable report of a run
func GenerateTimeline(result *scenario.TestResult, events []TimelineEvent) string {
	var sb strings.Builder

	s := result.Scenario
	fmt.Fprintf(&sb, "=== Scenario: %s ===\n", s.Name)
	fmt.Fprintf(&sb, "Display: %s  Virtual start: %s  Scale: %dx\n", s.Display, s.TestMode.VirtualStart, s.TestMode.TimeScale)
	fmt.Fprintf(&sb, "Duration: %s\n\n", formatDuration(result.EndTime.Sub(result.StartTime)))

	for _, event := range events {
		icon := "→"
		if event.IsCheck {
			icon = "✓"
			if !event.Success {
				icon = "✗"
			}
		}
		fmt.Fprintf(&sb, "[%7.2fs] %s %-8s: %s\n", event.Elapsed, icon, event.Layer, event.Description)
	}

	var failures []scenario.ExpectationResult
	for _, res := range result.Expectations {
		if !res.Passed {
			failures = append(failures, res)
		}
	}

	if len(failures) > 0 {
		sb.WriteString("\n=== Failures ===\n")
		for _, res := range failures {
			fmt.Fprintf(&sb, "  ✗ %s at %ds: %s", res.Expectation.Kind(), res.Expectation.Time, res.Reason)
			if res.Actual != nil {
				fmt.Fprintf(&sb, " (actual: %v)", res.Actual)
			}
			sb.WriteString("\n")
		}
	}

	status := "ALL EXPECTATIONS PASSED"
	if result.FailedCount > 0 {
		status = fmt.Sprintf("%d EXPECTATION(S) FAILED", result.FailedCount)
	}
	fmt.Fprintf(&sb, "\nPassed: %d  Failed: %d  Status: %s\n", result.PassedCount, result.FailedCount, status)

	return sb.String()
}

func formatDuration(d time.Duration) string {
	seconds := d.Seconds()
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	minutes := int(seconds / 60)
	return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
}
