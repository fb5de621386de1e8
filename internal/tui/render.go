package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lorebench/internal/coordinator"
	"lorebench/internal/keybinds"
	"lorebench/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleStatus = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleMode = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)
)

// View renders the whole screen: optional sidebar, the active panel (or the
// empty state), the metadata strip and the status bar.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebarWidth := m.sidebarWidth()
	mainWidth := m.width - sidebarWidth - PanelBorderWidth
	mainHeight := m.height - StatusBarHeight - MetadataStripHeight - PanelBorderLines

	main := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Width(mainWidth).
		Height(mainHeight).
		Render(m.renderMainPanel(mainWidth-PanelPaddingWidth, mainHeight))

	var row string
	if sidebarWidth > 0 {
		sidebar := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(sidebarWidth - PanelBorderWidth).
			Height(mainHeight).
			Render(m.renderSidebar())
		row = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	} else {
		row = main
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		row,
		m.renderMetadataStrip(),
		m.renderStatusBar(),
	)
}

// renderMainPanel returns the content of whichever panel region is visible,
// or the empty state.
func (m *Model) renderMainPanel(width, height int) string {
	for _, cfg := range coordinator.DefaultPanelConfigs() {
		r, ok := m.regions.Lookup(cfg.RegionID)
		if !ok || !r.Visible() {
			continue
		}
		content := r.Content()
		if m.mode == types.ModeScript && m.editing {
			content = m.surface.View()
		}
		return clampLines(content, height)
	}

	if r, ok := m.regions.Lookup(coordinator.RegionEmpty); ok && r.Visible() {
		return m.renderEmptyState(width, height)
	}
	return ""
}

// renderEmptyState shows the launcher hints when no panel is open
func (m *Model) renderEmptyState(width, height int) string {
	lines := []string{
		styleTitle.Render("lorebench"),
		"",
		styleSubtle.Render("1 scripts   2 properties   3 notes"),
		styleSubtle.Render("4 projectiles   5 quests"),
		"",
		styleSubtle.Render("? help   q quit"),
	}
	block := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// renderSidebar shows the script list region, plus the filter input line
// while it is being edited.
func (m *Model) renderSidebar() string {
	r, ok := m.regions.Lookup(coordinator.RegionScriptList)
	if !ok {
		return ""
	}
	view := r.Content()
	if m.filtering {
		view = styleTitle.Render("/"+m.filterInput) + "\n" + view
	}
	return view
}

// renderMetadataStrip shows the strip region when the active panel uses it
func (m *Model) renderMetadataStrip() string {
	r, ok := m.regions.Lookup(coordinator.RegionMetadata)
	if !ok || !r.Visible() {
		return ""
	}
	return styleSubtle.Render(" " + firstLine(r.Content()))
}

// renderStatusBar renders the bottom line: mode, workspace, status or error
func (m *Model) renderStatusBar() string {
	mode := "idle"
	if m.mode != types.ModeNone {
		mode = m.mode.String()
	}

	left := styleMode.Render(fmt.Sprintf(" %s ", mode)) +
		styleSubtle.Render(m.workspace)

	right := ""
	switch {
	case m.errorMsg != "":
		right = styleError.Render(firstLine(m.errorMsg))
	case m.statusMsg != "":
		right = styleStatus.Render(m.statusMsg)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp lists the active bindings for the current context
func (m *Model) renderHelp() string {
	context := keybinds.ContextForMode(string(m.mode))

	var b strings.Builder
	b.WriteString(styleTitle.Render("Keybindings") + "\n\n")
	for _, binding := range m.keys.ListBindings(context) {
		info := keybinds.GetActionInfo(binding.Action)
		b.WriteString(fmt.Sprintf("  %-12s %s\n", binding.Key, info.Description))
	}
	b.WriteString("\n" + styleSubtle.Render("press any key to close"))
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func clampLines(s string, max int) string {
	if max <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[:max], "\n")
}
