package checker

import (
	"fmt"
	"time"

	"github.com/saaga0h/sunwall/e2e/internal/scenario"
)

// CapturedMessage is an MQTT message seen during a run
type CapturedMessage struct {
	Timestamp time.Time   `json:"timestamp"`
	Topic     string      `json:"topic"`
	Retained  bool        `json:"retained"`
	Payload   interface{} `json:"payload"`
}

// CheckMessage validates a payload expectation against the most recent
// message captured on topic
func CheckMessage(exp scenario.Expectation, topic string, messages []CapturedMessage) (bool, string, interface{}) {
	var latest *CapturedMessage
	for i := range messages {
		if messages[i].Topic == topic {
			latest = &messages[i]
		}
	}

	if latest == nil {
		return false, fmt.Sprintf("no messages found for topic %q", topic), nil
	}

	payloadMap, ok := latest.Payload.(map[string]interface{})
	if !ok {
		return false, fmt.Sprintf("payload is not a JSON object, got %T", latest.Payload), latest.Payload
	}

	if matches, reason := MatchesExpectation(payloadMap, exp.Payload); !matches {
		return false, reason, latest.Payload
	}

	return true, "", latest.Payload
}
