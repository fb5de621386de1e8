package panels

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/types"
)

type propertyViewState struct {
	Selected int
}

// PropertyPanel browses the property bags attached to game entities.
type PropertyPanel struct {
	deps Deps

	mu       sync.Mutex
	bags     []types.PropertyBag
	selected int
}

// NewPropertyPanel creates the panel. Documents load on first show.
func NewPropertyPanel(deps Deps) *PropertyPanel {
	return &PropertyPanel{deps: deps}
}

// Register attaches the panel's lifecycle callbacks.
func (p *PropertyPanel) Register() {
	p.deps.Coord.RegisterPanelCallbacks(types.ModeProperty, coordinator.Callbacks{
		OnInit: p.load,
		OnShow: p.show,
		OnHide: p.hide,
	})
}

func (p *PropertyPanel) load() error {
	bags, err := content.LoadProperties(p.deps.Workspace)
	if err != nil {
		return fmt.Errorf("failed to load properties: %w", err)
	}
	p.mu.Lock()
	p.bags = bags
	p.selected = 0
	p.mu.Unlock()
	return nil
}

func (p *PropertyPanel) show() error {
	if blob, ok := p.deps.Coord.PanelState(types.ModeProperty).(propertyViewState); ok {
		p.mu.Lock()
		if blob.Selected < len(p.bags) {
			p.selected = blob.Selected
		}
		p.mu.Unlock()
	}
	p.refresh()
	return nil
}

func (p *PropertyPanel) hide() error {
	p.mu.Lock()
	blob := propertyViewState{Selected: p.selected}
	p.mu.Unlock()
	p.deps.Coord.SetPanelState(types.ModeProperty, blob)
	return nil
}

// Reload re-reads the property documents.
func (p *PropertyPanel) Reload() error {
	if err := p.load(); err != nil {
		return err
	}
	p.refresh()
	return nil
}

// Move shifts the selection by delta, clamped to the list bounds.
func (p *PropertyPanel) Move(delta int) {
	p.mu.Lock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if n := len(p.bags); n > 0 && p.selected >= n {
		p.selected = n - 1
	}
	p.mu.Unlock()
	p.refresh()
}

// Selected returns the highlighted property bag, or false.
func (p *PropertyPanel) Selected() (types.PropertyBag, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.bags) {
		return types.PropertyBag{}, false
	}
	return p.bags[p.selected], true
}

// View renders the bag list with the selected bag's values expanded.
func (p *PropertyPanel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Properties"))
	b.WriteString("\n")
	if len(p.bags) == 0 {
		b.WriteString(dimStyle.Render("no property bags"))
		return b.String()
	}
	for i, bag := range p.bags {
		line := "  " + bag.ID
		if i == p.selected {
			line = selectedStyle.Render("> " + bag.ID)
		}
		if bag.Target != "" {
			line += dimStyle.Render(" -> " + bag.Target)
		}
		b.WriteString(line + "\n")
		if i == p.selected {
			keys := make([]string, 0, len(bag.Values))
			for k := range bag.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				b.WriteString("    " + labelStyle.Render(k) + ": " + bag.Values[k] + "\n")
			}
		}
	}
	return b.String()
}

func (p *PropertyPanel) metadata() string {
	bag, ok := p.Selected()
	if !ok {
		return dimStyle.Render("no selection")
	}
	return fmt.Sprintf("%s  %s  %d values",
		labelStyle.Render(bag.ID), dimStyle.Render(bag.Target), len(bag.Values))
}

func (p *PropertyPanel) refresh() {
	setRegionContent(p.deps.Regions, regionFor(types.ModeProperty), p.View())
	setRegionContent(p.deps.Regions, coordinator.RegionMetadata, p.metadata())
}
