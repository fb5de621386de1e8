package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"lorebench/internal/bus"
	"lorebench/internal/catalog"
	"lorebench/internal/config"
	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/editor"
	"lorebench/internal/keybinds"
	"lorebench/internal/panels"
	"lorebench/internal/session"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// New wires the full application: store, coordinator, panels, watcher and
// the bubbletea model on top.
func New(workspace string, sessionMgr *session.Manager) (*Model, error) {
	cat, err := catalog.NewManager(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	st := store.New(cat)
	events := bus.New()
	regions := DefaultRegistry()
	anim := NewAnimator(regions)
	surface := editor.New()
	if settings := st.Get().Settings; settings != nil {
		surface.SetTheme(settings.Theme)
	}

	coord := coordinator.New(regions, anim, surface, events)
	unsub := coord.BindStore(st)

	panelSet := panels.RegisterAll(panels.Deps{
		Workspace: workspace,
		Store:     st,
		Coord:     coord,
		Regions:   regions,
		Editor:    surface,
		Catalog:   cat,
	})

	keyReg, err := keybinds.LoadOrDefault(config.GetKeybindsFilePath())
	if err != nil {
		cat.Close()
		events.Close()
		return nil, err
	}

	watcher, err := content.NewWatcher(st, events)
	if err != nil {
		cat.Close()
		events.Close()
		return nil, err
	}
	if err := watcher.Start(workspace); err != nil {
		watcher.Close()
		cat.Close()
		events.Close()
		return nil, err
	}

	m := &Model{
		st:         st,
		coord:      coord,
		regions:    regions,
		anim:       anim,
		events:     events,
		keys:       keyReg,
		sessionMgr: sessionMgr,
		surface:    surface,
		panelSet:   panelSet,
		workspace:  workspace,
		busCh:      mergeTopics(events, bus.TopicPanelShown, bus.TopicContentReloaded, bus.TopicSidebarToggled),
		unsubStore: unsub,
	}
	m.cleanup = func() {
		watcher.Close()
		events.Close()
		cat.Close()
	}

	st.Set(store.Patch{Workspace: &workspace})

	return m, nil
}

// mergeTopics fans several topic subscriptions into one channel for the
// update loop. The output closes when every input closes.
func mergeTopics(b *bus.Bus, topics ...string) <-chan bus.Event {
	out := make(chan bus.Event, bus.SubscriberBuffer)
	done := make(chan struct{}, len(topics))

	for _, topic := range topics {
		ch := b.Subscribe(topic)
		go func() {
			for ev := range ch {
				out <- ev
			}
			done <- struct{}{}
		}()
	}

	go func() {
		for range topics {
			<-done
		}
		close(out)
	}()

	return out
}

// Run starts the TUI
func Run(workspaceFlag string) error {
	if err := config.Initialize(); err != nil {
		return err
	}

	sessionMgr := session.NewManager()
	if err := sessionMgr.Load(); err != nil {
		return err
	}

	// Flag wins, then the previous session's workspace, then the default.
	wsArg := workspaceFlag
	if wsArg == "" {
		wsArg = sessionMgr.LastWorkspace()
	}
	workspace, err := config.ResolveWorkspace(wsArg)
	if err != nil {
		return err
	}

	m, err := New(workspace, sessionMgr)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	// Reopen the panel from the previous run.
	if last := sessionMgr.LastMode(); last != types.ModeNone {
		m.switchMode(last)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
