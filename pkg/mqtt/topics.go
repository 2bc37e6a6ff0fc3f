package mqtt

import "fmt"

// Topic constants
const (
	// TopicWallpaperBase prefixes per-display wallpaper change events (output)
	TopicWallpaperBase = "sunwall/wallpaper"

	// TopicStatusBase prefixes retained online/offline presence per client (output)
	TopicStatusBase = "sunwall/status"

	// TopicTimeConfig configures the virtual clock used in test runs (input)
	TopicTimeConfig = "sunwall/test/time_config"
)

// Presence payloads published on StatusTopic
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// WallpaperTopic constructs the change event topic for a display
// Pattern: sunwall/wallpaper/{display}
func WallpaperTopic(display string) string {
	return fmt.Sprintf("%s/%s", TopicWallpaperBase, display)
}

// StatusTopic constructs the presence topic for a client ID
// Pattern: sunwall/status/{client_id}
func StatusTopic(clientID string) string {
	return fmt.Sprintf("%s/%s", TopicStatusBase, clientID)
}
