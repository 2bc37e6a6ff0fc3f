package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saaga0h/sunwall/internal/daylight"
	"github.com/saaga0h/sunwall/internal/theme"
	"github.com/saaga0h/sunwall/pkg/config"
	"github.com/saaga0h/sunwall/pkg/mqtt"
)

// ErrImageMissing is returned when the selected image file is not on disk
var ErrImageMissing = errors.New("selected image file not found")

// Dependencies are the collaborators of an Agent. MQTT and History may be nil.
type Dependencies struct {
	Engine   *daylight.Engine
	Theme    *theme.Theme
	Location *daylight.Location
	Applier  Applier
	Store    StateStore
	MQTT     mqtt.Client
	History  History
	Clock    TimeSource
}

// Decision is the outcome of one tick
type Decision struct {
	Selection daylight.Selection
	Path      string
	Time      time.Time
	Skipped   bool // path already applied
	DryRun    bool
	Event     *ChangeEvent
}

// Agent periodically selects and applies the wallpaper for the current time of day
type Agent struct {
	deps     Dependencies
	notifier *Notifier
	cfg      *config.Config
	logger   *slog.Logger

	mu sync.Mutex

	ticker   *time.Ticker
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewAgent creates a new wallpaper agent
func NewAgent(deps Dependencies, cfg *config.Config, logger *slog.Logger) *Agent {
	if deps.Clock == nil {
		deps.Clock = NewClock(logger)
	}
	if deps.Store == nil {
		deps.Store = NewMemoryStateStore()
	}

	a := &Agent{
		deps:     deps,
		cfg:      cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
	if deps.MQTT != nil {
		a.notifier = NewNotifier(deps.MQTT, cfg.Display, logger)
	}
	return a
}

// Start makes an initial decision and then one every interval until ctx is
// cancelled. With Once set it returns after the first decision.
func (a *Agent) Start(ctx context.Context) error {
	a.logger.Info("Starting wallpaper agent",
		"service_name", a.cfg.ServiceName,
		"theme", a.deps.Theme.ID,
		"mode", a.cfg.Mode,
		"interval_sec", a.cfg.IntervalSec,
		"dry_run", a.cfg.DryRun)

	if a.deps.MQTT != nil {
		if err := a.deps.MQTT.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to MQTT: %w", err)
		}

		if clock, ok := a.deps.Clock.(*Clock); ok {
			if err := clock.ConfigureFromMQTT(a.deps.MQTT); err != nil {
				return fmt.Errorf("failed to subscribe to %s: %w", mqtt.TopicTimeConfig, err)
			}
		}
	}

	if _, err := a.Tick(ctx); err != nil {
		if a.cfg.Once {
			return err
		}
		a.logger.Error("Initial wallpaper decision failed", "error", err)
	}

	if a.cfg.Once {
		return nil
	}

	a.startDecisionLoop(ctx)

	a.logger.Info("Wallpaper agent started and ready")

	<-ctx.Done()
	a.logger.Info("Wallpaper agent stopping")

	return nil
}

// Stop gracefully stops the wallpaper agent
func (a *Agent) Stop() error {
	a.logger.Info("Stopping wallpaper agent")

	a.stopOnce.Do(func() {
		if a.ticker != nil {
			a.ticker.Stop()
		}
		close(a.stopChan)
	})

	if a.deps.MQTT != nil {
		a.deps.MQTT.Disconnect()
	}

	a.logger.Info("Wallpaper agent stopped")
	return nil
}

func (a *Agent) startDecisionLoop(ctx context.Context) {
	a.ticker = time.NewTicker(a.cfg.Interval())

	go func() {
		a.logger.Info("Starting decision loop", "interval_sec", a.cfg.IntervalSec)
		for {
			select {
			case <-a.ticker.C:
				if _, err := a.Tick(ctx); err != nil {
					a.logger.Error("Wallpaper decision failed", "error", err)
				}
			case <-a.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Tick selects the wallpaper for the current time and applies it when it
// differs from the last applied one
func (a *Agent) Tick(ctx context.Context) (*Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.deps.Clock.Now()

	state, err := a.deps.Store.Load(ctx)
	if err != nil {
		a.logger.Warn("Failed to load wallpaper state, starting fresh", "error", err)
		state = nil
	}

	sel, cycle, err := a.choose(now, state)
	if err != nil {
		return nil, err
	}

	decision := &Decision{
		Selection: sel,
		Path:      a.deps.Theme.ImagePath(sel.Image),
		Time:      now,
	}

	a.logger.Debug("Wallpaper selected",
		"period", sel.Period.String(),
		"image", sel.Image,
		"position", sel.Position,
		"source", sel.Source,
		"time", now.Format(time.RFC3339))

	if !a.deps.Theme.Exists(sel.Image) {
		return decision, fmt.Errorf("%w: %s", ErrImageMissing, decision.Path)
	}

	if state != nil && state.Path == decision.Path {
		decision.Skipped = true
		if cycle != nil && *cycle != state.Cycle {
			state.Cycle = *cycle
			if err := a.deps.Store.Save(ctx, state); err != nil {
				a.logger.Warn("Failed to save cycle state", "error", err)
			}
		}
		return decision, nil
	}

	if a.cfg.DryRun {
		decision.DryRun = true
		a.logger.Info("Dry run, not applying wallpaper",
			"path", decision.Path,
			"period", sel.Period.String(),
			"source", sel.Source)

		// The applied wallpaper stays as it was; only the cycle position moves on
		if cycle != nil {
			kept := State{}
			if state != nil {
				kept = *state
			}
			kept.Cycle = *cycle
			if err := a.deps.Store.Save(ctx, &kept); err != nil {
				a.logger.Warn("Failed to save cycle state", "error", err)
			}
		}
		return decision, nil
	}

	if err := a.apply(ctx, decision.Path); err != nil {
		return decision, err
	}

	next := &State{
		Path:      decision.Path,
		Image:     sel.Image,
		Period:    sel.Period,
		Source:    sel.Source,
		AppliedAt: now,
	}
	if cycle != nil {
		next.Cycle = *cycle
	} else if state != nil {
		next.Cycle = state.Cycle
	}

	if err := a.deps.Store.Save(ctx, next); err != nil {
		a.logger.Warn("Failed to save wallpaper state", "error", err)
	}

	decision.Event = &ChangeEvent{
		EventID:   uuid.New().String(),
		Display:   a.cfg.Display,
		Theme:     a.deps.Theme.ID,
		Image:     sel.Image,
		Path:      decision.Path,
		Period:    sel.Period.String(),
		Source:    string(sel.Source),
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	if a.notifier != nil {
		if err := a.notifier.Publish(decision.Event); err != nil {
			a.logger.Warn("Failed to publish wallpaper change", "error", err)
		}
	}

	if a.deps.History != nil {
		if err := a.deps.History.Record(ctx, decision.Event); err != nil {
			a.logger.Warn("Failed to record wallpaper history", "error", err)
		}
	}

	a.logger.Info("Wallpaper applied",
		"path", decision.Path,
		"period", sel.Period.String(),
		"image", sel.Image,
		"source", sel.Source)

	return decision, nil
}

// choose dispatches on the configured mode. The returned cycle state is
// non-nil only in cycle mode.
func (a *Agent) choose(now time.Time, state *State) (daylight.Selection, *daylight.CycleState, error) {
	lists := a.deps.Theme.ImageLists()

	switch a.cfg.Mode {
	case config.ModeHourly:
		sel, err := daylight.SelectImageHourlyWrapped(lists, a.local(now))
		return sel, nil, err

	case config.ModeCycle:
		// The cycle restarts whenever the time of day moves to another period.
		// A saved state may name the period standing in for an empty one.
		classified := a.deps.Engine.Classify(now, a.deps.Location)
		current := daylight.CycleState{Period: classified}
		if state != nil && state.Cycle.Period == lists.ActivePeriod(classified) {
			current = state.Cycle
		}
		sel, next, err := daylight.NextInCycle(lists, current)
		if err != nil {
			return sel, nil, err
		}
		return sel, &next, nil

	default:
		sel, err := a.deps.Engine.Select(lists, now, a.deps.Location)
		if errors.Is(err, daylight.ErrImageIndexExceeded) {
			a.logger.Warn("Hourly image exceeds period list, wrapping", "error", err)
			sel, err = daylight.SelectImageHourlyWrapped(lists, a.local(now))
		}
		return sel, nil, err
	}
}

func (a *Agent) local(now time.Time) time.Time {
	if a.deps.Location == nil {
		return now
	}
	zone, err := a.deps.Location.Zone()
	if err != nil {
		return now
	}
	return now.In(zone)
}

// apply runs the applier, retrying up to RetryCount more times
func (a *Agent) apply(ctx context.Context, path string) error {
	attempts := a.cfg.RetryCount + 1
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = a.deps.Applier.Apply(ctx, path); err == nil {
			return nil
		}

		a.logger.Warn("Failed to apply wallpaper",
			"path", path,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err)

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(a.cfg.RetryDelay()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("failed to apply wallpaper after %d attempts: %w", attempts, err)
}
