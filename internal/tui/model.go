package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"lorebench/internal/bus"
	"lorebench/internal/coordinator"
	"lorebench/internal/editor"
	"lorebench/internal/keybinds"
	"lorebench/internal/panels"
	"lorebench/internal/session"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// Model represents the TUI state
type Model struct {
	// Core collaborators
	st         *store.Store
	coord      *coordinator.Coordinator
	regions    *Registry
	anim       *Animator
	events     *bus.Bus
	keys       *keybinds.Registry
	sessionMgr *session.Manager
	surface    *editor.Surface
	panelSet   *panels.Set
	workspace  string

	// Event plumbing
	busCh      <-chan bus.Event
	unsubStore func()
	cleanup    func()

	// UI state
	width     int
	height    int
	mode      types.Mode // mirror of the store's uiMode, updated on panel:shown
	statusMsg string
	errorMsg  string

	// Input sub-states
	editing     bool   // editor surface has focus (script panel)
	filtering   bool   // fuzzy filter input active (script panel)
	filterInput string

	showHelp bool
}

// busEventMsg wraps a bus event for the bubbletea update loop
type busEventMsg bus.Event

// busClosedMsg signals that the event bus channel was closed
type busClosedMsg struct{}

// Init subscribes the update loop to the event bus
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the bus channel and forwards the next event
func (m *Model) waitForEvent() tea.Cmd {
	ch := m.busCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg(ev)
	}
}

// Update handles bubbletea messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case busEventMsg:
		m.handleBusEvent(bus.Event(msg))
		return m, m.waitForEvent()

	case busClosedMsg:
		return m, nil
	}

	// Everything else (cursor blink etc.) belongs to the editor surface
	if m.editing {
		return m, m.surface.Update(msg)
	}
	return m, nil
}

// handleBusEvent reacts to structural notifications published outside the
// update loop: transition completions and workspace reloads.
func (m *Model) handleBusEvent(ev bus.Event) {
	switch ev.Topic {
	case bus.TopicPanelShown:
		if mode, ok := ev.Payload.(types.Mode); ok {
			m.mode = mode
			m.errorMsg = ""
		}
	case bus.TopicContentReloaded:
		m.reloadPanels()
		m.statusMsg = "Workspace reloaded"
	case bus.TopicSidebarToggled:
		// Render-only; the region flags already changed.
	}
}

// reloadPanels re-reads workspace documents for every initialized panel
func (m *Model) reloadPanels() {
	reloaders := map[types.Mode]func() error{
		types.ModeScript:     m.panelSet.Script.Reload,
		types.ModeProperty:   m.panelSet.Property.Reload,
		types.ModeNote:       m.panelSet.Note.Reload,
		types.ModeProjectile: m.panelSet.Projectile.Reload,
		types.ModeQuest:      m.panelSet.Quest.Reload,
	}
	for mode, reload := range reloaders {
		if !m.coord.IsInitialized(mode) {
			continue
		}
		if err := reload(); err != nil {
			m.errorMsg = err.Error()
		}
	}
}

// relayout propagates the terminal size to the editor surface
func (m *Model) relayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	sidebar := m.sidebarWidth()
	mainWidth := m.width - sidebar - PanelBorderWidth - PanelPaddingWidth
	mainHeight := m.height - StatusBarHeight - MetadataStripHeight - PanelBorderLines
	m.surface.SetSize(mainWidth, mainHeight)
}

func (m *Model) sidebarWidth() int {
	if !m.sidebarRegionVisible() {
		return 0
	}
	w := m.width * SidebarWidthRatio / 100
	if m.width < SidebarNarrowLimit {
		w = m.width / 2
	}
	if w < SidebarMinWidth {
		w = SidebarMinWidth
	}
	return w
}

func (m *Model) sidebarRegionVisible() bool {
	r, ok := m.regions.Lookup(coordinator.RegionScriptList)
	return ok && r.Visible()
}

// Cleanup persists the session and releases background resources. Safe to
// call more than once.
func (m *Model) Cleanup() {
	if m.sessionMgr != nil {
		m.sessionMgr.SetLastMode(m.mode)
		m.sessionMgr.SetLastWorkspace(m.workspace)
	}
	if m.unsubStore != nil {
		m.unsubStore()
		m.unsubStore = nil
	}
	if m.cleanup != nil {
		m.cleanup()
		m.cleanup = nil
	}
}
