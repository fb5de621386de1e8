package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"lorebench/internal/bus"
	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/keybinds"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// handleKeyPress routes key presses based on the current panel
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// Force quit always works
	if key == "ctrl+c" {
		m.Cleanup()
		return tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}

	// Editor focus swallows everything except esc
	if m.editing {
		if key == "esc" {
			m.surface.Blur()
			m.editing = false
			return nil
		}
		return m.surface.Update(msg)
	}

	// Filter input mode (script panel)
	if m.filtering {
		return m.handleFilterKeys(msg)
	}

	context := keybinds.ContextForMode(string(m.mode))
	action, ok, partial := m.keys.MatchMultiKey(context, key)
	if partial {
		return nil
	}
	if !ok {
		return nil
	}

	return m.dispatch(action)
}

// dispatch executes a resolved keybinding action
func (m *Model) dispatch(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		m.Cleanup()
		return tea.Quit

	case keybinds.ActionOpenHelp:
		m.showHelp = true

	case keybinds.ActionModeScript:
		m.switchMode(types.ModeScript)
	case keybinds.ActionModeProperty:
		m.switchMode(types.ModeProperty)
	case keybinds.ActionModeNote:
		m.switchMode(types.ModeNote)
	case keybinds.ActionModeProjectile:
		m.switchMode(types.ModeProjectile)
	case keybinds.ActionModeQuest:
		m.switchMode(types.ModeQuest)
	case keybinds.ActionModeNone:
		m.switchMode(types.ModeNone)

	case keybinds.ActionNavigateUp:
		m.moveSelection(-1)
	case keybinds.ActionNavigateDown:
		m.moveSelection(1)
	case keybinds.ActionGoToTop:
		m.moveSelection(-1 << 16)
	case keybinds.ActionGoToBottom:
		m.moveSelection(1 << 16)

	case keybinds.ActionToggleSidebar:
		m.toggleSidebar()

	case keybinds.ActionReload:
		m.reloadPanels()
		m.statusMsg = "Workspace reloaded"

	case keybinds.ActionOpenFilter:
		if m.mode == types.ModeScript {
			m.filtering = true
			m.filterInput = ""
		}

	case keybinds.ActionOpenScript:
		if err := m.panelSet.Script.Open(); err != nil {
			m.errorMsg = err.Error()
		} else if path := m.panelSet.Script.Selected(); path != "" {
			m.sessionMgr.AddRecentFile(path)
			m.statusMsg = "Opened " + path
		}

	case keybinds.ActionEditScript:
		if m.surface.Ready() {
			m.editing = true
			return m.surface.Focus()
		}
		m.statusMsg = "Open a script first"

	case keybinds.ActionCopyNote:
		if err := m.panelSet.Note.CopyBody(); err != nil {
			m.errorMsg = err.Error()
		} else {
			m.statusMsg = "Note copied to clipboard"
		}

	case keybinds.ActionNextStage:
		m.panelSet.Quest.MoveStage(1)
	case keybinds.ActionPrevStage:
		m.panelSet.Quest.MoveStage(-1)

	case keybinds.ActionJumpToScript:
		m.jumpToStageScript()
	}

	return nil
}

// handleFilterKeys edits the fuzzy filter input for the script list
func (m *Model) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.filtering = false
	case "esc":
		m.filtering = false
		m.filterInput = ""
		m.panelSet.Script.Filter("")
	case "backspace":
		if len(m.filterInput) > 0 {
			m.filterInput = m.filterInput[:len(m.filterInput)-1]
			m.panelSet.Script.Filter(m.filterInput)
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filterInput += string(msg.Runes)
			m.panelSet.Script.Filter(m.filterInput)
		}
	}
	return nil
}

// switchMode writes the target mode to the store; the coordinator picks the
// change up through its subscription and runs the transition.
func (m *Model) switchMode(mode types.Mode) {
	m.st.Set(store.Patch{UIMode: &mode})
}

// moveSelection routes list navigation to the active panel
func (m *Model) moveSelection(delta int) {
	switch m.mode {
	case types.ModeScript:
		m.panelSet.Script.Move(delta)
	case types.ModeProperty:
		m.panelSet.Property.Move(delta)
	case types.ModeNote:
		m.panelSet.Note.Move(delta)
	case types.ModeProjectile:
		m.panelSet.Projectile.Move(delta)
	case types.ModeQuest:
		m.panelSet.Quest.Move(delta)
	}
}

// toggleSidebar flips the script list region and records the new state
func (m *Model) toggleSidebar() {
	r, ok := m.regions.Lookup(coordinator.RegionScriptList)
	if !ok {
		return
	}
	visible := !r.Visible()
	if visible {
		r.ForceShow()
	} else {
		r.ForceHide()
	}
	m.st.Set(store.Patch{SidebarVisible: &visible})
	m.events.Publish(bus.TopicSidebarToggled, visible)
	m.relayout()
}

// jumpToStageScript opens the current quest stage's script in the editor
// and switches to the script panel.
func (m *Model) jumpToStageScript() {
	rel := m.panelSet.Quest.StageScript()
	if rel == "" {
		m.statusMsg = "Stage has no script"
		return
	}
	path := content.ScriptsDir + "/" + rel
	source, err := content.ReadScript(m.workspace, path)
	if err != nil {
		m.errorMsg = fmt.Sprintf("failed to open stage script: %v", err)
		return
	}
	m.surface.Load(path, source)
	m.st.Set(store.Patch{ActiveScript: &path})
	m.switchMode(types.ModeScript)
}
