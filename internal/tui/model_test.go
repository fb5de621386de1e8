package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lorebench/internal/bus"
	"lorebench/internal/config"
	"lorebench/internal/coordinator"
	"lorebench/internal/editor"
	"lorebench/internal/keybinds"
	"lorebench/internal/panels"
	"lorebench/internal/session"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

type nullSink struct{}

func (nullSink) LoadSettings() (*types.Settings, error) { return nil, nil }

func (nullSink) SaveSettings(*types.Settings) error { return nil }

// newTestModel wires a model over a temp workspace without the catalog or
// the filesystem watcher.
func newTestModel(t *testing.T) *Model {
	t.Helper()
	t.Setenv("LOREBENCH_CONFIG_DIR", t.TempDir())
	if err := config.Initialize(); err != nil {
		t.Fatalf("config.Initialize failed: %v", err)
	}

	ws := t.TempDir()
	dir := filepath.Join(ws, "scripts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create scripts dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "boss.lua"), []byte("print('x')"), 0644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	st := store.New(nullSink{})
	events := bus.New()
	t.Cleanup(events.Close)
	regions := DefaultRegistry()
	anim := NewAnimator(regions)
	anim.SetTiming(1, 0)
	surface := editor.New()
	coord := coordinator.New(regions, anim, surface, events)
	coord.SetLogger(func(string, ...interface{}) {})
	unsub := coord.BindStore(st)
	t.Cleanup(unsub)

	panelSet := panels.RegisterAll(panels.Deps{
		Workspace: ws,
		Store:     st,
		Coord:     coord,
		Regions:   regions,
		Editor:    surface,
	})

	sessionMgr := session.NewManager()
	if err := sessionMgr.Load(); err != nil {
		t.Fatalf("session load failed: %v", err)
	}

	return &Model{
		st:         st,
		coord:      coord,
		regions:    regions,
		anim:       anim,
		events:     events,
		keys:       keybinds.NewDefaultRegistry(),
		sessionMgr: sessionMgr,
		surface:    surface,
		panelSet:   panelSet,
		workspace:  ws,
		busCh:      mergeTopics(events, bus.TopicPanelShown, bus.TopicContentReloaded),
		width:      100,
		height:     30,
	}
}

// waitForMode polls the coordinator until it reaches the target mode.
// Transitions run on their own goroutine.
func waitForMode(t *testing.T, m *Model, target types.Mode) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.coord.Current() == target {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for mode %q, current %q", target, m.coord.Current())
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModeKeyWritesStore(t *testing.T) {
	m := newTestModel(t)

	m.handleKeyPress(keyMsg("1"))

	if m.st.Get().UIMode != types.ModeScript {
		t.Errorf("Expected script mode in store, got %q", m.st.Get().UIMode)
	}
	waitForMode(t, m, types.ModeScript)
}

func TestPanelShownEventUpdatesModel(t *testing.T) {
	m := newTestModel(t)
	m.errorMsg = "stale error"

	m.handleBusEvent(bus.Event{Topic: bus.TopicPanelShown, Payload: types.ModeQuest})

	if m.mode != types.ModeQuest {
		t.Errorf("Expected model mode updated, got %q", m.mode)
	}
	if m.errorMsg != "" {
		t.Error("Expected error cleared after successful transition")
	}
}

func TestToggleSidebar(t *testing.T) {
	m := newTestModel(t)
	r, _ := m.regions.Lookup(coordinator.RegionScriptList)
	r.ForceShow()

	m.dispatch(keybinds.ActionToggleSidebar)

	if r.Visible() {
		t.Error("Expected sidebar hidden after toggle")
	}
	if m.st.Get().SidebarVisible {
		t.Error("Expected sidebar state recorded in store")
	}

	m.dispatch(keybinds.ActionToggleSidebar)
	if !r.Visible() {
		t.Error("Expected sidebar visible after second toggle")
	}
}

func TestFilterKeysDriveScriptPanel(t *testing.T) {
	m := newTestModel(t)
	m.handleKeyPress(keyMsg("1"))
	waitForMode(t, m, types.ModeScript)
	m.handleBusEvent(bus.Event{Topic: bus.TopicPanelShown, Payload: types.ModeScript})

	m.handleKeyPress(keyMsg("/"))
	if !m.filtering {
		t.Fatal("Expected filter input active")
	}

	m.handleKeyPress(keyMsg("b"))
	if m.filterInput != "b" {
		t.Errorf("Expected filter input accumulated, got %q", m.filterInput)
	}

	m.handleKeyPress(keyMsg("esc"))
	if m.filtering {
		t.Error("Expected filter input cancelled")
	}
	if m.filterInput != "" {
		t.Errorf("Expected filter cleared, got %q", m.filterInput)
	}
}

func TestEditingSwallowsModeKeys(t *testing.T) {
	m := newTestModel(t)
	m.surface.Load("scripts/boss.lua", "print('x')")
	m.editing = true

	m.handleKeyPress(keyMsg("2"))

	if m.st.Get().UIMode == types.ModeProperty {
		t.Error("Expected mode key swallowed while editing")
	}

	m.handleKeyPress(keyMsg("esc"))
	if m.editing {
		t.Error("Expected esc to leave editing")
	}
}

func TestViewRendersEmptyState(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	if view == "" {
		t.Fatal("Expected non-empty view")
	}
}

func TestHelpTogglesOnAnyKey(t *testing.T) {
	m := newTestModel(t)
	m.handleKeyPress(keyMsg("?"))
	if !m.showHelp {
		t.Fatal("Expected help shown")
	}
	m.handleKeyPress(keyMsg("x"))
	if m.showHelp {
		t.Error("Expected help dismissed by any key")
	}
}
