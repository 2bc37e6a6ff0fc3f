package wallpaper

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/saaga0h/sunwall/pkg/mqtt"
)

// ChangeEvent describes one applied wallpaper
type ChangeEvent struct {
	EventID   string `json:"event_id"`
	Display   string `json:"display"`
	Theme     string `json:"theme"`
	Image     int    `json:"image"`
	Path      string `json:"path"`
	Period    string `json:"period"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes change events as retained messages so that late
// subscribers see the current wallpaper
type Notifier struct {
	mqtt   mqtt.Client
	topic  string
	logger *slog.Logger
}

// NewNotifier creates a notifier for one display
func NewNotifier(mqttClient mqtt.Client, display string, logger *slog.Logger) *Notifier {
	return &Notifier{
		mqtt:   mqttClient,
		topic:  mqtt.WallpaperTopic(display),
		logger: logger,
	}
}

// Publish sends event to sunwall/wallpaper/{display}
func (n *Notifier) Publish(event *ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := n.mqtt.Publish(n.topic, 1, true, payload); err != nil {
		return fmt.Errorf("failed to publish change event to %s: %w", n.topic, err)
	}

	n.logger.Debug("Published wallpaper change", "topic", n.topic, "image", event.Image)
	return nil
}
