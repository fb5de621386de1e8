package store

import (
	"fmt"
	"log"
	"sync"

	"lorebench/internal/types"
)

// Field names the AppState fields for change notifications.
type Field string

const (
	FieldUIMode           Field = "uiMode"
	FieldWorkspace        Field = "workspace"
	FieldActiveScript     Field = "activeScript"
	FieldActiveQuest      Field = "activeQuest"
	FieldActiveProjectile Field = "activeProjectile"
	FieldStatusMessage    Field = "statusMessage"
	FieldSidebarVisible   Field = "sidebarVisible"
	FieldContentRevision  Field = "contentRevision"
	FieldSettings         Field = "settings"
)

// Patch is a partial AppState update. Nil fields are left untouched.
// Settings is compared by pointer identity: assigning a structurally-equal
// clone still counts as a change.
type Patch struct {
	UIMode           *types.Mode
	Workspace        *string
	ActiveScript     *string
	ActiveQuest      *string
	ActiveProjectile *string
	StatusMessage    *string
	SidebarVisible   *bool
	ContentRevision  *int
	Settings         *types.Settings
}

// Subscriber receives the new state snapshot and the ordered list of
// changed field names after every effective mutation.
type Subscriber func(state types.AppState, changed []Field)

// Sink is the durable storage backing the settings slice of the state.
type Sink interface {
	LoadSettings() (*types.Settings, error)
	SaveSettings(*types.Settings) error
}

type subscription struct {
	id int64
	fn Subscriber
}

// Store owns the shared application state. All mutation goes through Set
// or Batch; readers receive value snapshots.
//
// Notification is a synchronous fan-out on the caller's goroutine. The
// subscriber list is snapshotted before iterating, so unsubscribing during
// a notification is safe and does not affect the current pass. A subscriber
// that calls Set on the same store recurses synchronously; the store does
// not serialize re-entrant notification. Nested Batch calls are not
// supported.
type Store struct {
	mu       sync.Mutex
	state    types.AppState
	subs     []subscription
	nextID   int64
	batching bool
	pending  []Field

	sink Sink
	logf func(format string, args ...interface{})
}

// New creates a store with default state, seeding the settings slice from
// the sink when a persisted entry exists. A nil sink disables persistence.
func New(sink Sink) *Store {
	s := &Store{
		state: defaultState(),
		sink:  sink,
		logf:  log.Printf,
	}
	if sink != nil {
		if loaded, err := sink.LoadSettings(); err != nil {
			s.logf("store: failed to load settings, using defaults: %v", err)
		} else if loaded != nil {
			s.state.Settings = loaded
		}
	}
	return s
}

// SetLogger overrides the warning logger. Used by tests.
func (s *Store) SetLogger(logf func(format string, args ...interface{})) {
	s.mu.Lock()
	s.logf = logf
	s.mu.Unlock()
}

func defaultState() types.AppState {
	return types.AppState{
		UIMode:         types.ModeNone,
		SidebarVisible: true,
		Settings:       types.DefaultSettings(),
	}
}

// Get returns a snapshot of the current state. The Settings pointer is
// shared; treat it as read-only and use Clone for updates.
func (s *Store) Get() types.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set applies the patch. Fields whose new value equals the current value
// (identity for Settings, value equality for the rest) are dropped from
// the change-set; if nothing changed, no notification is delivered and
// nothing is persisted.
func (s *Store) Set(p Patch) {
	s.mu.Lock()
	changed := s.apply(p)
	if len(changed) == 0 {
		s.mu.Unlock()
		return
	}

	if s.batching {
		s.pending = mergeFields(s.pending, changed)
		s.mu.Unlock()
		return
	}

	snapshot := s.state
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	s.persistAndNotify(snapshot, changed, subs)
}

// Batch invokes fn, coalescing every Set it performs into a single
// deduplicated notification (and at most one settings persistence) after
// fn returns. A batch that changes nothing notifies nobody.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batching = true
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.batching = false
	changed := s.pending
	s.pending = nil
	if len(changed) == 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.state
	subs := append([]subscription(nil), s.subs...)
	s.mu.Unlock()

	s.persistAndNotify(snapshot, changed, subs)
}

// Subscribe registers a callback and returns its unsubscribe function.
// Multiple subscriptions of the same callback are independent entries.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Reset clears all subscribers and restores default state. It does not
// persist and does not notify.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = defaultState()
	s.subs = nil
	s.pending = nil
	s.batching = false
}

// apply mutates state under the lock and returns the changed field names
// in patch order.
func (s *Store) apply(p Patch) []Field {
	var changed []Field

	if p.UIMode != nil && *p.UIMode != s.state.UIMode {
		s.state.UIMode = *p.UIMode
		changed = append(changed, FieldUIMode)
	}
	if p.Workspace != nil && *p.Workspace != s.state.Workspace {
		s.state.Workspace = *p.Workspace
		changed = append(changed, FieldWorkspace)
	}
	if p.ActiveScript != nil && *p.ActiveScript != s.state.ActiveScript {
		s.state.ActiveScript = *p.ActiveScript
		changed = append(changed, FieldActiveScript)
	}
	if p.ActiveQuest != nil && *p.ActiveQuest != s.state.ActiveQuest {
		s.state.ActiveQuest = *p.ActiveQuest
		changed = append(changed, FieldActiveQuest)
	}
	if p.ActiveProjectile != nil && *p.ActiveProjectile != s.state.ActiveProjectile {
		s.state.ActiveProjectile = *p.ActiveProjectile
		changed = append(changed, FieldActiveProjectile)
	}
	if p.StatusMessage != nil && *p.StatusMessage != s.state.StatusMessage {
		s.state.StatusMessage = *p.StatusMessage
		changed = append(changed, FieldStatusMessage)
	}
	if p.SidebarVisible != nil && *p.SidebarVisible != s.state.SidebarVisible {
		s.state.SidebarVisible = *p.SidebarVisible
		changed = append(changed, FieldSidebarVisible)
	}
	if p.ContentRevision != nil && *p.ContentRevision != s.state.ContentRevision {
		s.state.ContentRevision = *p.ContentRevision
		changed = append(changed, FieldContentRevision)
	}
	if p.Settings != nil && p.Settings != s.state.Settings {
		s.state.Settings = p.Settings
		changed = append(changed, FieldSettings)
	}

	return changed
}

// persistAndNotify runs outside the lock so subscribers may call back into
// the store.
func (s *Store) persistAndNotify(snapshot types.AppState, changed []Field, subs []subscription) {
	if s.sink != nil && containsField(changed, FieldSettings) {
		if err := s.sink.SaveSettings(snapshot.Settings); err != nil {
			s.logf("store: failed to persist settings: %v", err)
		}
	}

	for _, sub := range subs {
		s.invoke(sub, snapshot, changed)
	}
}

// invoke calls one subscriber, containing its panic so the remaining
// subscribers still run and the Set caller is unaffected.
func (s *Store) invoke(sub subscription, snapshot types.AppState, changed []Field) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("store: subscriber %d panicked: %v", sub.id, r)
		}
	}()
	sub.fn(snapshot, changed)
}

func mergeFields(dst, src []Field) []Field {
	for _, f := range src {
		if !containsField(dst, f) {
			dst = append(dst, f)
		}
	}
	return dst
}

func containsField(fields []Field, f Field) bool {
	for _, have := range fields {
		if have == f {
			return true
		}
	}
	return false
}

// Describe returns a short human-readable change summary, used in status
// messages and logs.
func Describe(changed []Field) string {
	if len(changed) == 0 {
		return "no changes"
	}
	out := ""
	for i, f := range changed {
		if i > 0 {
			out += ", "
		}
		out += string(f)
	}
	return fmt.Sprintf("changed: %s", out)
}
