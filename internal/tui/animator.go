package tui

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Animation timing defaults. Eight steps at 12ms reads as a quick
// cross-fade without making mode switches feel sluggish.
const (
	DefaultFadeSteps     = 8
	DefaultFadeStepDelay = 12 * time.Millisecond
)

// Animator realizes panel transitions as opacity fades and tracks which
// region is the active panel. SwitchPanel blocks for the duration of the
// fade; the coordinator serializes callers.
type Animator struct {
	regions *Registry

	mu        sync.Mutex
	current   string
	steps     int
	stepDelay time.Duration
}

// NewAnimator creates an animator over the registry with default timing.
func NewAnimator(regions *Registry) *Animator {
	return &Animator{
		regions:   regions,
		steps:     DefaultFadeSteps,
		stepDelay: DefaultFadeStepDelay,
	}
}

// SetTiming overrides fade timing. Tests use (1, 0) for instant switches.
func (a *Animator) SetTiming(steps int, stepDelay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if steps < 1 {
		steps = 1
	}
	a.steps = steps
	a.stepDelay = stepDelay
}

// CurrentPanel returns the id of the active panel region, or "" when none.
func (a *Animator) CurrentPanel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// ForceSetCurrentPanel resynchronizes the tracked active panel without
// animating or touching any region.
func (a *Animator) ForceSetCurrentPanel(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = id
}

// SwitchPanel fades the currently-active panel out and the target in,
// completing only when the target is the active one. Returns early on
// context cancellation, leaving whatever opacity the fade reached; the
// coordinator's forced re-assertion cleans that up.
func (a *Animator) SwitchPanel(ctx context.Context, id string) error {
	target, ok := a.regions.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown region %s", id)
	}

	a.mu.Lock()
	fromID := a.current
	a.mu.Unlock()
	if fromID == id {
		return nil
	}

	if fromID != "" {
		if from, found := a.regions.Lookup(fromID); found {
			if err := a.fade(ctx, from, 1, 0); err != nil {
				return err
			}
			from.ForceHide()
		}
	}

	a.mu.Lock()
	a.current = id
	a.mu.Unlock()

	target.SetHidden(false)
	target.setDisplay(true)
	if err := a.fade(ctx, target, 0, 1); err != nil {
		return err
	}
	target.setInteractive(true)

	return nil
}

func (a *Animator) fade(ctx context.Context, r *Region, from, to float64) error {
	a.mu.Lock()
	steps := a.steps
	delay := a.stepDelay
	a.mu.Unlock()

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("fade of %s interrupted: %w", r.ID(), ctx.Err())
		default:
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		r.setOpacity(from + (to-from)*float64(i)/float64(steps))
	}
	return nil
}
