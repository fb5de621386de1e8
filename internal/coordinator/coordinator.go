package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"lorebench/internal/bus"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// Region is one visual region as seen by the coordinator. Both the
// coordinator and the animation layer write presentation state onto
// regions; the coordinator's forceful re-assertion in transitions resolves
// that shared-write hazard in its own favor.
type Region interface {
	ID() string
	ForceHide()
	ForceShow()
	SetHidden(hidden bool)
	Visible() bool
}

// Regions looks up regions by identifier. Lookups go through the table on
// every use so a stale cached handle is never trusted.
type Regions interface {
	Region(id string) (Region, bool)
}

// Animator is the visual-transition collaborator. SwitchPanel may block
// while an animation runs and may fail; the coordinator treats the
// animator's own visibility writes as untrusted and re-asserts them.
type Animator interface {
	CurrentPanel() string
	ForceSetCurrentPanel(id string)
	SwitchPanel(ctx context.Context, id string) error
}

// Editor is the code-editing surface. The coordinator only asks whether it
// is initialized and triggers a layout recalculation after activating a
// mode that carries the editor.
type Editor interface {
	Ready() bool
	Relayout()
}

// Publisher is the event-bus side the coordinator emits panel:shown on.
type Publisher interface {
	Publish(topic string, payload interface{})
}

// Coordinator enforces single-panel-visible exclusivity. It owns the
// current mode, per-mode one-time initialization, per-mode opaque state
// blobs, and the transition gate that serializes concurrent switch
// requests.
type Coordinator struct {
	regions Regions
	anim    Animator
	editor  Editor
	pub     Publisher

	// gate serializes transitions; SwitchPanel may block, so a plain
	// critical section is not enough. Waiters re-check the target after
	// acquiring, so a request that already took effect no-ops.
	gate chan struct{}

	mu          sync.Mutex
	logf        func(format string, args ...interface{})
	current     types.Mode
	configs     map[types.Mode]PanelConfig
	callbacks   map[types.Mode]Callbacks
	initialized map[types.Mode]bool
	blobs       map[types.Mode]interface{}
}

// New creates a coordinator in the NoMode state. editor and pub may be nil.
func New(regions Regions, anim Animator, editor Editor, pub Publisher) *Coordinator {
	return &Coordinator{
		regions:     regions,
		anim:        anim,
		editor:      editor,
		pub:         pub,
		gate:        make(chan struct{}, 1),
		logf:        log.Printf,
		current:     types.ModeNone,
		configs:     DefaultPanelConfigs(),
		callbacks:   make(map[types.Mode]Callbacks),
		initialized: make(map[types.Mode]bool),
		blobs:       make(map[types.Mode]interface{}),
	}
}

// SetLogger overrides the warning logger. Used by tests.
func (c *Coordinator) SetLogger(logf func(format string, args ...interface{})) {
	c.mu.Lock()
	c.logf = logf
	c.mu.Unlock()
}

func (c *Coordinator) warnf(format string, args ...interface{}) {
	c.mu.Lock()
	logf := c.logf
	c.mu.Unlock()
	logf(format, args...)
}

// Current returns the current mode, or ModeNone.
func (c *Coordinator) Current() types.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// BindStore subscribes the coordinator to the store so that writes to the
// uiMode field drive the same transition path as direct SwitchTo calls.
// Transitions run on a single worker goroutine fed in store-write order;
// the store's synchronous fan-out must not block on an animation, and a
// newer target supersedes one still waiting in the queue. Returns the
// unsubscribe function, which also stops the worker.
func (c *Coordinator) BindStore(st *store.Store) func() {
	q := &modeQueue{targets: make(chan types.Mode, 1)}
	done := make(chan struct{})

	go func() {
		defer close(done)
		for target := range q.targets {
			c.SwitchTo(context.Background(), target)
		}
	}()

	unsub := st.Subscribe(func(state types.AppState, changed []store.Field) {
		for _, f := range changed {
			if f == store.FieldUIMode {
				q.push(state.UIMode)
				return
			}
		}
	})

	return func() {
		unsub()
		q.close()
		<-done
	}
}

// modeQueue hands uiMode targets to the transition worker, keeping only the
// newest undelivered one. Pushes are serialized under the mutex, so with a
// single receiver the drain-then-send below can never block.
type modeQueue struct {
	mu      sync.Mutex
	closed  bool
	targets chan types.Mode
}

func (q *modeQueue) push(target types.Mode) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case <-q.targets:
	default:
	}
	q.targets <- target
}

func (q *modeQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.targets)
}

// RegisterPanelCallbacks attaches lifecycle hooks for a mode. Panel modules
// initialize after the coordinator, so registration is late-bound.
func (c *Coordinator) RegisterPanelCallbacks(mode types.Mode, cb Callbacks) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks[mode] = cb
}

// SetPanelState stashes an opaque blob for a mode, typically from an OnHide
// hook saving scroll or selection state.
func (c *Coordinator) SetPanelState(mode types.Mode, blob interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs[mode] = blob
}

// PanelState returns the stashed blob for a mode, or nil.
func (c *Coordinator) PanelState(mode types.Mode) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blobs[mode]
}

// IsInitialized reports whether a mode's one-time OnInit has completed.
func (c *Coordinator) IsInitialized(mode types.Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized[mode]
}

// SwitchTo transitions to the target mode, or to the empty state for
// ModeNone. Concurrent calls serialize on the transition gate; a call that
// finds its target already current returns without touching any region.
// Failures are logged and resolved by falling back to the empty state:
// callers get no error, because "briefly shows nothing, then idle" is an
// acceptable outcome and two panels visible at once is not.
func (c *Coordinator) SwitchTo(ctx context.Context, target types.Mode) {
	if target == types.ModeNone {
		c.forceEmptyState(true)
		return
	}

	c.mu.Lock()
	cfg, ok := c.configs[target]
	c.mu.Unlock()
	if !ok {
		c.warnf("coordinator: no panel config for mode %q, dropping switch", target)
		return
	}

	// Idempotence: already current and visually active.
	if c.Current() == target && c.anim.CurrentPanel() == cfg.RegionID {
		return
	}

	// Wait for any in-flight transition to finish.
	select {
	case c.gate <- struct{}{}:
	case <-ctx.Done():
		c.warnf("coordinator: switch to %q abandoned: %v", target, ctx.Err())
		return
	}
	defer func() { <-c.gate }()

	// The transition we waited on may have already reached this target.
	if c.Current() == target && c.anim.CurrentPanel() == cfg.RegionID {
		return
	}

	ranHide, err := c.runTransition(ctx, target, cfg)
	if err != nil {
		c.warnf("coordinator: switch to %q failed, falling back to empty state: %v", target, err)
		// The failed transition already ran the outgoing OnHide; do not run
		// it a second time during recovery.
		c.forceEmptyState(!ranHide)
	}
}

// runTransition contains panics from collaborators so the gate is always
// released and the fallback path runs.
func (c *Coordinator) runTransition(ctx context.Context, target types.Mode, cfg PanelConfig) (ranHide bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during transition: %v", r)
		}
	}()
	return c.transition(ctx, target, cfg)
}

func (c *Coordinator) transition(ctx context.Context, target types.Mode, cfg PanelConfig) (ranHide bool, err error) {
	// Force every other panel fully hidden first. External style state can
	// drift out of sync with the animator's bookkeeping; hiding by force
	// makes the starting point deterministic.
	c.hideOtherPanels(target)

	outgoing := c.Current()
	if outgoing != types.ModeNone && outgoing != target {
		c.runCallback(outgoing, "onHide", c.callbackFor(outgoing).OnHide)
		ranHide = true
	}

	if r, ok := c.regions.Region(RegionEmpty); ok {
		r.ForceHide()
	}

	// Activate the target. This may block while the animation runs.
	if err := c.anim.SwitchPanel(ctx, cfg.RegionID); err != nil {
		return ranHide, fmt.Errorf("failed to activate panel %s: %w", cfg.RegionID, err)
	}

	r, ok := c.regions.Region(cfg.RegionID)
	if !ok {
		return ranHide, fmt.Errorf("region %s not found", cfg.RegionID)
	}
	// Re-assert visibility in case the animator's own write did not take
	// effect.
	r.ForceShow()

	c.setRegionVisible(RegionScriptList, cfg.ShowScriptList)
	c.setRegionVisible(RegionMetadata, cfg.ShowMetadata)

	c.mu.Lock()
	initDone := c.initialized[target]
	c.mu.Unlock()
	if !initDone {
		c.runCallback(target, "onInit", c.callbackFor(target).OnInit)
		c.mu.Lock()
		c.initialized[target] = true
		c.mu.Unlock()
	}

	// The stashed blob for the target stays available through PanelState;
	// the panel's OnShow restores from it.
	c.runCallback(target, "onShow", c.callbackFor(target).OnShow)

	if cfg.ShowEditor && c.editor != nil && c.editor.Ready() {
		c.editor.Relayout()
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()

	if c.pub != nil {
		c.pub.Publish(bus.TopicPanelShown, target)
	}

	if !c.Validate() {
		c.warnf("coordinator: panel exclusivity violated after switch to %q", target)
	}

	return ranHide, nil
}

// Validate checks the exclusivity invariant: either zero panels are visible
// and no mode is current, or exactly one is visible and it belongs to the
// current mode.
func (c *Coordinator) Validate() bool {
	c.mu.Lock()
	current := c.current
	configs := make(map[types.Mode]PanelConfig, len(c.configs))
	for m, cfg := range c.configs {
		configs[m] = cfg
	}
	c.mu.Unlock()

	visible := 0
	visibleMode := types.ModeNone
	for mode, cfg := range configs {
		r, ok := c.regions.Region(cfg.RegionID)
		if !ok {
			continue
		}
		if r.Visible() {
			visible++
			visibleMode = mode
		}
	}

	if visible == 0 {
		return current == types.ModeNone
	}
	return visible == 1 && visibleMode == current
}

// ForceCleanup unconditionally hides a panel, runs its OnHide, and clears
// its initialized flag and stored blob. Used for full teardown.
func (c *Coordinator) ForceCleanup(mode types.Mode) {
	c.mu.Lock()
	cfg, ok := c.configs[mode]
	c.mu.Unlock()
	if !ok {
		return
	}

	if r, found := c.regions.Region(cfg.RegionID); found {
		r.ForceHide()
	}
	c.runCallback(mode, "onHide", c.callbackFor(mode).OnHide)

	c.mu.Lock()
	delete(c.initialized, mode)
	delete(c.blobs, mode)
	if c.current == mode {
		c.current = types.ModeNone
	}
	c.mu.Unlock()

	if c.anim.CurrentPanel() == cfg.RegionID {
		c.anim.ForceSetCurrentPanel("")
	}
}

// Clear tears down every mode and returns the coordinator to its initial,
// uninitialized condition.
func (c *Coordinator) Clear() {
	for _, mode := range types.AllModes() {
		c.ForceCleanup(mode)
	}

	c.mu.Lock()
	c.current = types.ModeNone
	c.callbacks = make(map[types.Mode]Callbacks)
	c.initialized = make(map[types.Mode]bool)
	c.blobs = make(map[types.Mode]interface{})
	c.mu.Unlock()

	c.setRegionVisible(RegionScriptList, false)
	c.setRegionVisible(RegionMetadata, false)
	if r, ok := c.regions.Region(RegionEmpty); ok {
		r.ForceShow()
	}
}

// forceEmptyState is the safe state: every panel hidden, the empty-state
// region shown, no mode current. Also the recovery path for failed
// transitions, which pass runHide=false when the outgoing panel's OnHide
// already ran inside the transition.
func (c *Coordinator) forceEmptyState(runHide bool) {
	c.mu.Lock()
	configs := make(map[types.Mode]PanelConfig, len(c.configs))
	for m, cfg := range c.configs {
		configs[m] = cfg
	}
	outgoing := c.current
	c.current = types.ModeNone
	c.mu.Unlock()

	for _, cfg := range configs {
		if r, ok := c.regions.Region(cfg.RegionID); ok {
			r.ForceHide()
		}
	}
	c.setRegionVisible(RegionScriptList, false)
	c.setRegionVisible(RegionMetadata, false)

	if runHide && outgoing != types.ModeNone {
		c.runCallback(outgoing, "onHide", c.callbackFor(outgoing).OnHide)
	}

	if r, ok := c.regions.Region(RegionEmpty); ok {
		r.ForceShow()
	}
	c.anim.ForceSetCurrentPanel("")
}

func (c *Coordinator) hideOtherPanels(target types.Mode) {
	c.mu.Lock()
	configs := make(map[types.Mode]PanelConfig, len(c.configs))
	for m, cfg := range c.configs {
		configs[m] = cfg
	}
	c.mu.Unlock()

	for mode, cfg := range configs {
		if mode == target {
			continue
		}
		if r, ok := c.regions.Region(cfg.RegionID); ok {
			r.ForceHide()
		}
	}
}

func (c *Coordinator) setRegionVisible(id string, visible bool) {
	r, ok := c.regions.Region(id)
	if !ok {
		return
	}
	if visible {
		r.ForceShow()
	} else {
		r.ForceHide()
	}
}

func (c *Coordinator) callbackFor(mode types.Mode) Callbacks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callbacks[mode]
}

// runCallback invokes one lifecycle hook, containing failures so the
// remainder of the transition proceeds.
func (c *Coordinator) runCallback(mode types.Mode, name string, fn func() error) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.warnf("coordinator: %s callback for %q panicked: %v", name, mode, r)
		}
	}()
	if err := fn(); err != nil {
		c.warnf("coordinator: %s callback for %q failed: %v", name, mode, err)
	}
}
