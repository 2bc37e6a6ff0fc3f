package executor

import (
	"context"
	"time"
)

// WaitUntil waits until virtualSeconds of virtual time have passed since
// start, given the virtual clock runs timeScale times faster than real time
func WaitUntil(ctx context.Context, start time.Time, virtualSeconds int, timeScale int) error {
	if timeScale < 1 {
		timeScale = 1
	}

	target := start.Add(time.Duration(virtualSeconds) * time.Second / time.Duration(timeScale))
	remaining := time.Until(target)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetElapsed returns elapsed seconds since start
func GetElapsed(start time.Time) float64 {
	return time.Since(start).Seconds()
}
