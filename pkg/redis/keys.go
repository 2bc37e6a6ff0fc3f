package redis

import "fmt"

// WallpaperStateKey returns the key for a display's wallpaper state (hash)
// Pattern: wallpaper:state:{display}
func WallpaperStateKey(display string) string {
	return fmt.Sprintf("wallpaper:state:%s", display)
}
