package scenario

import (
	"fmt"
	"strings"
	"time"
)

// ValidateScenario performs validation checks on a loaded scenario
func ValidateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("scenario description is required")
	}

	// The display becomes an MQTT topic level and part of the Redis key
	if strings.ContainsAny(s.Display, "/+# ") {
		return fmt.Errorf("display %q must be a single topic level", s.Display)
	}

	if err := validateTestMode(s.TestMode); err != nil {
		return fmt.Errorf("test_mode validation failed: %w", err)
	}

	if err := validateExpectations(s.Expectations); err != nil {
		return fmt.Errorf("expectations validation failed: %w", err)
	}

	return nil
}

func validateTestMode(tm TestModeConfig) error {
	if tm.VirtualStart == "" {
		return fmt.Errorf("virtual_start is required")
	}

	if _, err := time.Parse(time.RFC3339, tm.VirtualStart); err != nil {
		return fmt.Errorf("virtual_start must be valid ISO 8601 timestamp: %w", err)
	}

	if tm.TimeScale < 1 {
		return fmt.Errorf("time_scale must be >= 1 (got %d)", tm.TimeScale)
	}

	return nil
}

func validateExpectations(expectations []Expectation) error {
	if len(expectations) == 0 {
		return fmt.Errorf("at least one expectation is required")
	}

	for i, exp := range expectations {
		if exp.Time < 0 {
			return fmt.Errorf("expectation %d: time cannot be negative", i)
		}

		checks := 0
		if len(exp.Payload) > 0 {
			checks++
		}
		if exp.RedisField != "" {
			checks++
			if exp.Expected == "" {
				return fmt.Errorf("expectation %d: expected is required when redis_field is specified", i)
			}
		}
		if exp.PostgresQuery != "" {
			checks++
			if exp.PostgresExpected == nil {
				return fmt.Errorf("expectation %d: postgres_expected is required when postgres_query is specified", i)
			}
		}

		if checks != 1 {
			return fmt.Errorf("expectation %d: exactly one of payload, redis_field or postgres_query is required", i)
		}
	}

	return nil
}
