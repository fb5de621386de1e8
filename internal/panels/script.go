package panels

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// scriptViewState is the blob stashed with the coordinator between shows.
type scriptViewState struct {
	Selected int
	Filter   string
	Opened   string
}

// ScriptPanel lists workspace scripts and feeds the selected one into the
// editor surface.
type ScriptPanel struct {
	deps Deps

	mu       sync.Mutex
	scripts  []string
	filtered []string
	selected int
	filter   string
	opened   string
}

// NewScriptPanel creates the panel. Documents load on first show.
func NewScriptPanel(deps Deps) *ScriptPanel {
	return &ScriptPanel{deps: deps}
}

// Register attaches the panel's lifecycle callbacks.
func (p *ScriptPanel) Register() {
	p.deps.Coord.RegisterPanelCallbacks(types.ModeScript, coordinator.Callbacks{
		OnInit: p.load,
		OnShow: p.show,
		OnHide: p.hide,
	})
}

func (p *ScriptPanel) load() error {
	scripts, err := content.ListScripts(p.deps.Workspace)
	if err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}
	p.mu.Lock()
	p.scripts = scripts
	p.filtered = scripts
	p.selected = 0
	p.mu.Unlock()
	return nil
}

func (p *ScriptPanel) show() error {
	if blob, ok := p.deps.Coord.PanelState(types.ModeScript).(scriptViewState); ok {
		p.mu.Lock()
		p.filter = blob.Filter
		p.opened = blob.Opened
		p.mu.Unlock()
		p.applyFilter()
		p.mu.Lock()
		if blob.Selected < len(p.filtered) {
			p.selected = blob.Selected
		}
		p.mu.Unlock()
	}
	p.refresh()
	return nil
}

func (p *ScriptPanel) hide() error {
	p.mu.Lock()
	blob := scriptViewState{Selected: p.selected, Filter: p.filter, Opened: p.opened}
	p.mu.Unlock()
	p.deps.Coord.SetPanelState(types.ModeScript, blob)
	return nil
}

// Reload re-reads the script list, e.g. after a content revision bump.
func (p *ScriptPanel) Reload() error {
	if err := p.load(); err != nil {
		return err
	}
	p.applyFilter()
	p.refresh()
	return nil
}

// Filter narrows the list with fuzzy matching. An empty query restores the
// full list.
func (p *ScriptPanel) Filter(query string) {
	p.mu.Lock()
	p.filter = query
	p.mu.Unlock()
	p.applyFilter()
	p.refresh()
}

func (p *ScriptPanel) applyFilter() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filter == "" {
		p.filtered = p.scripts
	} else {
		matches := fuzzy.Find(p.filter, p.scripts)
		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, m.Str)
		}
		p.filtered = filtered
	}
	if p.selected >= len(p.filtered) {
		p.selected = 0
	}
}

// Move shifts the selection by delta, clamped to the list bounds.
func (p *ScriptPanel) Move(delta int) {
	p.mu.Lock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if n := len(p.filtered); n > 0 && p.selected >= n {
		p.selected = n - 1
	}
	p.mu.Unlock()
	p.refresh()
}

// Selected returns the highlighted script path, or "".
func (p *ScriptPanel) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.filtered) {
		return ""
	}
	return p.filtered[p.selected]
}

// Open loads the selected script into the editor and records the edit.
func (p *ScriptPanel) Open() error {
	rel := p.Selected()
	if rel == "" {
		return nil
	}

	source, err := content.ReadScript(p.deps.Workspace, rel)
	if err != nil {
		return err
	}
	p.deps.Editor.Load(rel, source)

	p.mu.Lock()
	p.opened = rel
	p.mu.Unlock()

	p.deps.Store.Set(store.Patch{ActiveScript: &rel})
	if p.deps.Catalog != nil {
		if err := p.deps.Catalog.RecordEdit(types.ModeScript, rel, "opened script"); err != nil {
			return fmt.Errorf("failed to record edit: %w", err)
		}
	}
	p.refresh()
	return nil
}

// View renders the script list.
func (p *ScriptPanel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Scripts"))
	b.WriteString("\n")
	if p.filter != "" {
		b.WriteString(dimStyle.Render("filter: "+p.filter) + "\n")
	}
	if len(p.filtered) == 0 {
		b.WriteString(dimStyle.Render("no scripts"))
		return b.String()
	}
	for i, s := range p.filtered {
		name := filepath.Base(s)
		line := "  " + name
		if s == p.opened {
			line += dimStyle.Render(" (open)")
		}
		if i == p.selected {
			line = selectedStyle.Render("> " + name)
			if s == p.opened {
				line += dimStyle.Render(" (open)")
			}
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (p *ScriptPanel) refresh() {
	setRegionContent(p.deps.Regions, coordinator.RegionScriptList, p.View())
	if p.deps.Editor != nil && p.deps.Editor.Ready() {
		setRegionContent(p.deps.Regions, regionFor(types.ModeScript), p.deps.Editor.HighlightedView())
	}
}
