package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lorebench/internal/store"
	"lorebench/internal/types"
)

// fakeRegion tracks visibility writes.
type fakeRegion struct {
	mu         sync.Mutex
	id         string
	hidden     bool
	forceHides int
	forceShows int
}

func (r *fakeRegion) ID() string { return r.id }

func (r *fakeRegion) ForceHide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = true
	r.forceHides++
}

func (r *fakeRegion) ForceShow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = false
	r.forceShows++
}

func (r *fakeRegion) SetHidden(hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = hidden
}

func (r *fakeRegion) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.hidden
}

func (r *fakeRegion) writes() (hides, shows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forceHides, r.forceShows
}

// fakeRegions is an in-memory region table.
type fakeRegions struct {
	mu      sync.Mutex
	regions map[string]*fakeRegion
}

func newFakeRegions() *fakeRegions {
	f := &fakeRegions{regions: make(map[string]*fakeRegion)}
	ids := []string{RegionEmpty, RegionScriptList, RegionMetadata}
	for _, cfg := range DefaultPanelConfigs() {
		ids = append(ids, cfg.RegionID)
	}
	for _, id := range ids {
		f.regions[id] = &fakeRegion{id: id, hidden: true}
	}
	return f
}

func (f *fakeRegions) Region(id string) (Region, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regions[id]
	return r, ok
}

func (f *fakeRegions) get(t *testing.T, id string) *fakeRegion {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.regions[id]
	if !ok {
		t.Fatalf("unknown region %q", id)
	}
	return r
}

// fakeAnimator can block mid-switch and fail on demand.
type fakeAnimator struct {
	mu      sync.Mutex
	current string
	calls   []string
	err     error

	started chan string   // receives the target id when SwitchPanel begins
	proceed chan struct{} // SwitchPanel blocks until a receive when non-nil
}

func (a *fakeAnimator) CurrentPanel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *fakeAnimator) ForceSetCurrentPanel(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = id
}

func (a *fakeAnimator) SwitchPanel(ctx context.Context, id string) error {
	if a.started != nil {
		a.started <- id
	}
	if a.proceed != nil {
		<-a.proceed
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, id)
	if a.err != nil {
		return a.err
	}
	a.current = id
	return nil
}

func (a *fakeAnimator) switchCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

type fakeEditor struct {
	mu        sync.Mutex
	ready     bool
	relayouts int
}

func (e *fakeEditor) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

func (e *fakeEditor) Relayout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.relayouts++
}

type fakePub struct {
	mu     sync.Mutex
	topics []string
	loads  []interface{}
}

func (p *fakePub) Publish(topic string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.loads = append(p.loads, payload)
}

func (p *fakePub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

type fixture struct {
	regions *fakeRegions
	anim    *fakeAnimator
	editor  *fakeEditor
	pub     *fakePub
	coord   *Coordinator
}

func newFixture() *fixture {
	f := &fixture{
		regions: newFakeRegions(),
		anim:    &fakeAnimator{},
		editor:  &fakeEditor{ready: true},
		pub:     &fakePub{},
	}
	f.coord = New(f.regions, f.anim, f.editor, f.pub)
	f.coord.SetLogger(func(string, ...interface{}) {})
	return f
}

func TestSwitchToShowsExactlyOnePanel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.coord.SwitchTo(ctx, types.ModeQuest)

	if f.coord.Current() != types.ModeQuest {
		t.Fatalf("Expected current quest, got %q", f.coord.Current())
	}
	if !f.regions.get(t, "panel-quest").Visible() {
		t.Error("Expected quest panel visible")
	}
	for _, id := range []string{"panel-script", "panel-property", "panel-note", "panel-projectile"} {
		if f.regions.get(t, id).Visible() {
			t.Errorf("Expected %s hidden", id)
		}
	}
	// Quest shows both auxiliary regions.
	if !f.regions.get(t, RegionScriptList).Visible() {
		t.Error("Expected script list visible for quest")
	}
	if !f.regions.get(t, RegionMetadata).Visible() {
		t.Error("Expected metadata strip visible for quest")
	}
	if f.regions.get(t, RegionEmpty).Visible() {
		t.Error("Expected empty-state region hidden")
	}
	if !f.coord.IsInitialized(types.ModeQuest) {
		t.Error("Expected quest initialized after first show")
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold")
	}
	if f.pub.count() != 1 || f.pub.topics[0] != "panel:shown" {
		t.Errorf("Expected one panel:shown event, got %v", f.pub.topics)
	}
}

func TestSwitchToNoneForcesEmptyState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.coord.SwitchTo(ctx, types.ModeScript)

	f.coord.SwitchTo(ctx, types.ModeNone)

	if f.coord.Current() != types.ModeNone {
		t.Fatalf("Expected no current mode, got %q", f.coord.Current())
	}
	for _, cfg := range DefaultPanelConfigs() {
		if f.regions.get(t, cfg.RegionID).Visible() {
			t.Errorf("Expected %s hidden", cfg.RegionID)
		}
	}
	if !f.regions.get(t, RegionEmpty).Visible() {
		t.Error("Expected empty-state region visible")
	}
	if f.anim.CurrentPanel() != "" {
		t.Errorf("Expected animator resynced to none, got %q", f.anim.CurrentPanel())
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold in empty state")
	}
}

func TestSwitchToIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.coord.SwitchTo(ctx, types.ModeNote)

	region := f.regions.get(t, "panel-note")
	hidesBefore, showsBefore := region.writes()
	switchesBefore := f.anim.switchCount()

	f.coord.SwitchTo(ctx, types.ModeNote)

	hides, shows := region.writes()
	if hides != hidesBefore || shows != showsBefore {
		t.Error("Expected no visual mutation on idempotent switch")
	}
	if f.anim.switchCount() != switchesBefore {
		t.Error("Expected no animator call on idempotent switch")
	}
}

func TestSwitchToUnknownModeDropped(t *testing.T) {
	f := newFixture()
	logged := 0
	f.coord.SetLogger(func(string, ...interface{}) { logged++ })

	f.coord.SwitchTo(context.Background(), types.Mode("spreadsheet"))

	if f.coord.Current() != types.ModeNone {
		t.Errorf("Expected current unchanged, got %q", f.coord.Current())
	}
	if f.anim.switchCount() != 0 {
		t.Error("Expected no animator call for unknown mode")
	}
	if logged == 0 {
		t.Error("Expected dropped switch to be logged")
	}
}

// Scenario: switch to projectile, then request quest while the first
// transition is still animating. The second call's target wins.
func TestConcurrentSwitchLastTargetWins(t *testing.T) {
	f := newFixture()
	f.anim.started = make(chan string, 2)
	f.anim.proceed = make(chan struct{})
	ctx := context.Background()

	done1 := make(chan struct{})
	go func() {
		f.coord.SwitchTo(ctx, types.ModeProjectile)
		close(done1)
	}()

	// Wait until the projectile transition is inside the animator.
	if id := <-f.anim.started; id != "panel-projectile" {
		t.Fatalf("Expected projectile animation first, got %q", id)
	}

	done2 := make(chan struct{})
	go func() {
		f.coord.SwitchTo(ctx, types.ModeQuest)
		close(done2)
	}()

	// Release the projectile animation, then the queued quest animation.
	f.anim.proceed <- struct{}{}
	<-done1
	if id := <-f.anim.started; id != "panel-quest" {
		t.Fatalf("Expected queued quest animation, got %q", id)
	}
	f.anim.proceed <- struct{}{}
	<-done2

	if f.coord.Current() != types.ModeQuest {
		t.Fatalf("Expected final mode quest, got %q", f.coord.Current())
	}
	if f.regions.get(t, "panel-projectile").Visible() {
		t.Error("Expected projectile panel hidden after supersession")
	}
	if !f.regions.get(t, "panel-quest").Visible() {
		t.Error("Expected quest panel visible")
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold after interleaved switches")
	}
}

func TestQueuedDuplicateTargetNoOps(t *testing.T) {
	f := newFixture()
	f.anim.started = make(chan string, 2)
	f.anim.proceed = make(chan struct{}, 2)
	ctx := context.Background()

	done1 := make(chan struct{})
	go func() {
		f.coord.SwitchTo(ctx, types.ModeQuest)
		close(done1)
	}()
	<-f.anim.started

	done2 := make(chan struct{})
	go func() {
		f.coord.SwitchTo(ctx, types.ModeQuest)
		close(done2)
	}()

	f.anim.proceed <- struct{}{}
	<-done1
	f.anim.proceed <- struct{}{}
	<-done2

	// The queued call found quest already current and skipped its own
	// animation: exactly one SwitchPanel happened.
	if n := f.anim.switchCount(); n != 1 {
		t.Errorf("Expected 1 animator call, got %d", n)
	}
}

func TestRecoveryOnAnimatorFailure(t *testing.T) {
	f := newFixture()
	f.anim.err = errors.New("animation engine wedged")

	f.coord.SwitchTo(context.Background(), types.ModeQuest)

	if f.coord.Current() != types.ModeNone {
		t.Errorf("Expected fallback to no mode, got %q", f.coord.Current())
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold after recovery")
	}
	if !f.regions.get(t, RegionEmpty).Visible() {
		t.Error("Expected empty-state region visible after recovery")
	}
}

func TestRecoveryOnAnimatorPanic(t *testing.T) {
	f := newFixture()
	f.anim.started = make(chan string, 1)
	panicAnim := &panickingAnimator{inner: f.anim}
	f.coord = New(f.regions, panicAnim, f.editor, f.pub)
	f.coord.SetLogger(func(string, ...interface{}) {})

	f.coord.SwitchTo(context.Background(), types.ModeScript)

	if f.coord.Current() != types.ModeNone {
		t.Errorf("Expected fallback to no mode after panic, got %q", f.coord.Current())
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold after panic recovery")
	}

	// The gate must have been released: a later switch succeeds.
	panicAnim.disarm()
	done := make(chan struct{})
	go func() {
		f.coord.SwitchTo(context.Background(), types.ModeNote)
		close(done)
	}()
	<-f.anim.started
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected gate released after panic")
	}
	if f.coord.Current() != types.ModeNote {
		t.Errorf("Expected note current after recovery, got %q", f.coord.Current())
	}
}

type panickingAnimator struct {
	mu    sync.Mutex
	inner *fakeAnimator
	safe  bool
}

func (p *panickingAnimator) disarm() {
	p.mu.Lock()
	p.safe = true
	p.mu.Unlock()
}

func (p *panickingAnimator) CurrentPanel() string { return p.inner.CurrentPanel() }

func (p *panickingAnimator) ForceSetCurrentPanel(id string) { p.inner.ForceSetCurrentPanel(id) }

func (p *panickingAnimator) SwitchPanel(ctx context.Context, id string) error {
	p.mu.Lock()
	safe := p.safe
	p.mu.Unlock()
	if !safe {
		panic("animator exploded")
	}
	return p.inner.SwitchPanel(ctx, id)
}

func TestCallbackFailureDoesNotAbortTransition(t *testing.T) {
	f := newFixture()
	shown := false
	f.coord.RegisterPanelCallbacks(types.ModeQuest, Callbacks{
		OnInit: func() error { return errors.New("init exploded") },
		OnShow: func() error {
			shown = true
			return nil
		},
	})

	f.coord.SwitchTo(context.Background(), types.ModeQuest)

	if f.coord.Current() != types.ModeQuest {
		t.Errorf("Expected quest current despite init failure, got %q", f.coord.Current())
	}
	if !f.coord.IsInitialized(types.ModeQuest) {
		t.Error("Expected quest marked initialized despite failing OnInit")
	}
	if !shown {
		t.Error("Expected OnShow to run after OnInit failure")
	}
}

func TestCallbackPanicIsContained(t *testing.T) {
	f := newFixture()
	f.coord.RegisterPanelCallbacks(types.ModeNote, Callbacks{
		OnShow: func() error { panic("show exploded") },
	})

	f.coord.SwitchTo(context.Background(), types.ModeNote)

	if f.coord.Current() != types.ModeNote {
		t.Errorf("Expected note current despite panicking OnShow, got %q", f.coord.Current())
	}
}

func TestOnInitRunsOncePerMode(t *testing.T) {
	f := newFixture()
	inits := 0
	f.coord.RegisterPanelCallbacks(types.ModeScript, Callbacks{
		OnInit: func() error {
			inits++
			return nil
		},
	})
	ctx := context.Background()

	f.coord.SwitchTo(ctx, types.ModeScript)
	f.coord.SwitchTo(ctx, types.ModeQuest)
	f.coord.SwitchTo(ctx, types.ModeScript)

	if inits != 1 {
		t.Errorf("Expected OnInit exactly once, got %d", inits)
	}
}

func TestOnHideRunsForOutgoingPanel(t *testing.T) {
	f := newFixture()
	hidden := 0
	f.coord.RegisterPanelCallbacks(types.ModeScript, Callbacks{
		OnHide: func() error {
			hidden++
			return nil
		},
	})
	ctx := context.Background()

	f.coord.SwitchTo(ctx, types.ModeScript)
	f.coord.SwitchTo(ctx, types.ModeQuest)

	if hidden != 1 {
		t.Errorf("Expected OnHide once, got %d", hidden)
	}
}

func TestPanelStateBlobSurvivesSwitches(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	type scroll struct{ offset int }

	f.coord.RegisterPanelCallbacks(types.ModeQuest, Callbacks{
		OnHide: func() error {
			f.coord.SetPanelState(types.ModeQuest, scroll{offset: 12})
			return nil
		},
	})

	f.coord.SwitchTo(ctx, types.ModeQuest)
	f.coord.SwitchTo(ctx, types.ModeScript)

	blob := f.coord.PanelState(types.ModeQuest)
	got, ok := blob.(scroll)
	if !ok || got.offset != 12 {
		t.Errorf("Expected stashed scroll{12}, got %#v", blob)
	}
}

func TestEditorRelayoutOnEditorModes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.coord.SwitchTo(ctx, types.ModeScript) // ShowEditor: true
	f.coord.SwitchTo(ctx, types.ModeNote)   // ShowEditor: false

	f.editor.mu.Lock()
	defer f.editor.mu.Unlock()
	if f.editor.relayouts != 1 {
		t.Errorf("Expected 1 relayout, got %d", f.editor.relayouts)
	}
}

func TestForceCleanup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.coord.SwitchTo(ctx, types.ModeQuest)
	f.coord.SetPanelState(types.ModeQuest, "blob")

	f.coord.ForceCleanup(types.ModeQuest)

	if f.regions.get(t, "panel-quest").Visible() {
		t.Error("Expected quest panel hidden after cleanup")
	}
	if f.coord.IsInitialized(types.ModeQuest) {
		t.Error("Expected initialized flag cleared")
	}
	if f.coord.PanelState(types.ModeQuest) != nil {
		t.Error("Expected blob cleared")
	}
	if f.coord.Current() != types.ModeNone {
		t.Errorf("Expected current cleared, got %q", f.coord.Current())
	}
	if f.anim.CurrentPanel() != "" {
		t.Errorf("Expected animator resynced, got %q", f.anim.CurrentPanel())
	}
}

func TestClearResetsEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.coord.SwitchTo(ctx, types.ModeScript)
	f.coord.SwitchTo(ctx, types.ModeQuest)

	f.coord.Clear()

	if f.coord.Current() != types.ModeNone {
		t.Errorf("Expected no mode after clear, got %q", f.coord.Current())
	}
	for _, mode := range types.AllModes() {
		if f.coord.IsInitialized(mode) {
			t.Errorf("Expected %q uninitialized after clear", mode)
		}
	}
	if !f.regions.get(t, RegionEmpty).Visible() {
		t.Error("Expected empty-state region visible after clear")
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold after clear")
	}
}

func TestValidateDetectsDrift(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.coord.SwitchTo(ctx, types.ModeQuest)

	// External style drift: a second panel becomes visible behind the
	// coordinator's back.
	f.regions.get(t, "panel-note").SetHidden(false)

	if f.coord.Validate() {
		t.Error("Expected invariant violation with two visible panels")
	}
}

func TestBindStoreDrivesTransitions(t *testing.T) {
	f := newFixture()
	st := store.New(nil)
	unbind := f.coord.BindStore(st)
	defer unbind()

	mode := types.ModeProjectile
	st.Set(store.Patch{UIMode: &mode})

	deadline := time.After(2 * time.Second)
	for f.coord.Current() != types.ModeProjectile {
		select {
		case <-deadline:
			t.Fatalf("Expected store-driven switch to projectile, still %q", f.coord.Current())
		case <-time.After(5 * time.Millisecond):
		}
	}
	if !f.regions.get(t, "panel-projectile").Visible() {
		t.Error("Expected projectile panel visible")
	}
}

// Two back-to-back uiMode writes must settle on the second target: the
// store is authoritative and store-driven requests are served in write
// order, with a later target superseding an earlier queued one.
func TestBindStoreRapidWritesSettleOnLatest(t *testing.T) {
	f := newFixture()
	st := store.New(nil)
	unbind := f.coord.BindStore(st)
	defer unbind()

	script := types.ModeScript
	quest := types.ModeQuest
	none := types.ModeNone

	for i := 0; i < 100; i++ {
		st.Set(store.Patch{UIMode: &script})
		st.Set(store.Patch{UIMode: &quest})

		deadline := time.After(2 * time.Second)
		for f.coord.Current() != types.ModeQuest {
			select {
			case <-deadline:
				t.Fatalf("Iteration %d: store says quest but coordinator settled on %q", i, f.coord.Current())
			case <-time.After(time.Millisecond):
			}
		}

		st.Set(store.Patch{UIMode: &none})
		deadline = time.After(2 * time.Second)
		for f.coord.Current() != types.ModeNone {
			select {
			case <-deadline:
				t.Fatalf("Iteration %d: expected reset to no mode, got %q", i, f.coord.Current())
			case <-time.After(time.Millisecond):
			}
		}
	}

	// Settled state must be stable: nothing queued may flip it back.
	st.Set(store.Patch{UIMode: &script})
	st.Set(store.Patch{UIMode: &quest})
	deadline := time.After(2 * time.Second)
	for f.coord.Current() != types.ModeQuest {
		select {
		case <-deadline:
			t.Fatalf("Expected final mode quest, got %q", f.coord.Current())
		case <-time.After(time.Millisecond):
		}
	}
	time.Sleep(20 * time.Millisecond)
	if f.coord.Current() != types.ModeQuest {
		t.Errorf("Expected quest to stay current, got %q", f.coord.Current())
	}
	if !f.coord.Validate() {
		t.Error("Expected invariant to hold after rapid writes")
	}
}

func TestRecoveryRunsOnHideOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hidden := 0
	f.coord.RegisterPanelCallbacks(types.ModeScript, Callbacks{
		OnHide: func() error {
			hidden++
			return nil
		},
	})
	f.coord.SwitchTo(ctx, types.ModeScript)

	f.anim.mu.Lock()
	f.anim.err = errors.New("animation engine wedged")
	f.anim.mu.Unlock()
	f.coord.SwitchTo(ctx, types.ModeQuest)

	if f.coord.Current() != types.ModeNone {
		t.Fatalf("Expected fallback to no mode, got %q", f.coord.Current())
	}
	if hidden != 1 {
		t.Errorf("Expected OnHide once across transition and recovery, got %d", hidden)
	}
}

func TestSwitchAbandonedOnCancelledContext(t *testing.T) {
	f := newFixture()
	f.anim.started = make(chan string, 1)
	f.anim.proceed = make(chan struct{})

	// Occupy the gate with a long transition.
	go f.coord.SwitchTo(context.Background(), types.ModeScript)
	<-f.anim.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		f.coord.SwitchTo(ctx, types.ModeQuest)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected cancelled waiter to return")
	}

	f.anim.proceed <- struct{}{}
}
