package scenario

import "time"

// Scenario replays part of a day on virtual time and checks what the
// wallpaper agent did
type Scenario struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	Display      string         `yaml:"display"`
	TestMode     TestModeConfig `yaml:"test_mode"`
	Expectations []Expectation  `yaml:"expectations"`
}

// TestModeConfig is published to the agent's virtual clock
type TestModeConfig struct {
	VirtualStart string `yaml:"virtual_start"`
	TimeScale    int    `yaml:"time_scale"`
}

// Expectation is checked once the given number of virtual seconds has passed.
// Exactly one of Payload, RedisField or PostgresQuery is set.
type Expectation struct {
	Time        int    `yaml:"time"`
	Description string `yaml:"description"`

	// Latest change event on sunwall/wallpaper/{display} (supports matchers)
	Payload map[string]interface{} `yaml:"payload,omitempty"`

	// Field of the wallpaper:state:{display} hash
	RedisField string `yaml:"redis_field,omitempty"`
	Expected   string `yaml:"expected,omitempty"`

	// Single value query against the history table
	PostgresQuery    string      `yaml:"postgres_query,omitempty"`
	PostgresExpected interface{} `yaml:"postgres_expected,omitempty"`
}

// Kind names the layer an expectation checks
func (e *Expectation) Kind() string {
	switch {
	case e.PostgresQuery != "":
		return "postgres"
	case e.RedisField != "":
		return "redis"
	default:
		return "mqtt"
	}
}

// TestResult represents the outcome of running a scenario
type TestResult struct {
	Scenario     *Scenario           `json:"scenario"`
	StartTime    time.Time           `json:"start_time"`
	EndTime      time.Time           `json:"end_time"`
	Passed       bool                `json:"passed"`
	PassedCount  int                 `json:"passed_count"`
	FailedCount  int                 `json:"failed_count"`
	Expectations []ExpectationResult `json:"expectations"`
}

// ExpectationResult represents the result of checking a single expectation
type ExpectationResult struct {
	Expectation Expectation `json:"expectation"`
	Passed      bool        `json:"passed"`
	Reason      string      `json:"reason,omitempty"`
	Actual      interface{} `json:"actual,omitempty"`
}
