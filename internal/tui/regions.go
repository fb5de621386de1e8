package tui

import (
	"sync"

	"lorebench/internal/coordinator"
)

// Region is one named visual area of the screen. Visibility is the product
// of the hidden flag (the coordinator's primary toggle) and the inline
// overrides (display, opacity, interactive) that both the coordinator and
// the animator write. A region renders only when all of them agree.
type Region struct {
	mu          sync.Mutex
	id          string
	hidden      bool
	display     bool
	opacity     float64
	interactive bool
	content     string
}

// ID returns the region identifier.
func (r *Region) ID() string { return r.id }

// SetHidden toggles the hidden flag only, leaving overrides alone.
func (r *Region) SetHidden(hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = hidden
}

// ForceHide puts the region into the fully-hidden state: hidden flag set
// and every override cleared, so no stale style can keep it on screen.
func (r *Region) ForceHide() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = true
	r.display = false
	r.opacity = 0
	r.interactive = false
}

// ForceShow puts the region into the fully-visible state.
func (r *Region) ForceShow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = false
	r.display = true
	r.opacity = 1
	r.interactive = true
}

// Visible reports whether the region would render.
func (r *Region) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.hidden && r.display && r.opacity > 0
}

// Opacity returns the current opacity (0..1).
func (r *Region) Opacity() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opacity
}

// Interactive reports whether the region accepts input.
func (r *Region) Interactive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interactive
}

// SetContent replaces the rendered body of the region.
func (r *Region) SetContent(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
}

// Content returns the rendered body of the region.
func (r *Region) Content() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

func (r *Region) setOpacity(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opacity = v
}

func (r *Region) setDisplay(display bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.display = display
}

func (r *Region) setInteractive(interactive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactive = interactive
}

// Registry is the region table. Consumers look handles up by identifier on
// every use; a handle that has gone stale is simply refetched here.
type Registry struct {
	mu      sync.RWMutex
	regions map[string]*Region
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{regions: make(map[string]*Region)}
}

// DefaultRegistry returns a registry pre-populated with every panel and
// auxiliary region, all fully hidden except the empty-state region.
func DefaultRegistry() *Registry {
	g := NewRegistry()
	for _, cfg := range coordinator.DefaultPanelConfigs() {
		g.Add(cfg.RegionID).ForceHide()
	}
	g.Add(coordinator.RegionScriptList).ForceHide()
	g.Add(coordinator.RegionMetadata).ForceHide()
	g.Add(coordinator.RegionEmpty).ForceShow()
	return g
}

// Add registers a region, returning the existing one when already present.
func (g *Registry) Add(id string) *Region {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.regions[id]; ok {
		return r
	}
	r := &Region{id: id}
	g.regions[id] = r
	return r
}

// Region implements the coordinator's region table interface.
func (g *Registry) Region(id string) (coordinator.Region, bool) {
	r, ok := g.Lookup(id)
	if !ok {
		return nil, false
	}
	return r, true
}

// SetContent replaces the rendered body of a region, ignoring unknown ids.
// This is the write side the panel modules use.
func (g *Registry) SetContent(id, content string) {
	if r, ok := g.Lookup(id); ok {
		r.SetContent(content)
	}
}

// Lookup returns the concrete region for rendering code.
func (g *Registry) Lookup(id string) (*Region, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.regions[id]
	return r, ok
}
