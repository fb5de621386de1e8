package panels

import (
	"fmt"
	"strings"
	"sync"

	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

type projectileViewState struct {
	Selected int
}

// ProjectilePanel browses projectile definitions and surfaces validation
// findings inline.
type ProjectilePanel struct {
	deps Deps

	mu          sync.Mutex
	projectiles []types.Projectile
	selected    int
}

// NewProjectilePanel creates the panel. Documents load on first show.
func NewProjectilePanel(deps Deps) *ProjectilePanel {
	return &ProjectilePanel{deps: deps}
}

// Register attaches the panel's lifecycle callbacks.
func (p *ProjectilePanel) Register() {
	p.deps.Coord.RegisterPanelCallbacks(types.ModeProjectile, coordinator.Callbacks{
		OnInit: p.load,
		OnShow: p.show,
		OnHide: p.hide,
	})
}

func (p *ProjectilePanel) load() error {
	projectiles, err := content.LoadProjectiles(p.deps.Workspace)
	if err != nil {
		return fmt.Errorf("failed to load projectiles: %w", err)
	}
	p.mu.Lock()
	p.projectiles = projectiles
	p.selected = 0
	p.mu.Unlock()
	return nil
}

func (p *ProjectilePanel) show() error {
	if blob, ok := p.deps.Coord.PanelState(types.ModeProjectile).(projectileViewState); ok {
		p.mu.Lock()
		if blob.Selected < len(p.projectiles) {
			p.selected = blob.Selected
		}
		p.mu.Unlock()
	}
	p.syncActive()
	p.refresh()
	return nil
}

func (p *ProjectilePanel) hide() error {
	p.mu.Lock()
	blob := projectileViewState{Selected: p.selected}
	p.mu.Unlock()
	p.deps.Coord.SetPanelState(types.ModeProjectile, blob)
	return nil
}

// Reload re-reads the projectile documents.
func (p *ProjectilePanel) Reload() error {
	if err := p.load(); err != nil {
		return err
	}
	p.refresh()
	return nil
}

// Move shifts the selection by delta, clamped to the list bounds.
func (p *ProjectilePanel) Move(delta int) {
	p.mu.Lock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if n := len(p.projectiles); n > 0 && p.selected >= n {
		p.selected = n - 1
	}
	p.mu.Unlock()
	p.syncActive()
	p.refresh()
}

// Selected returns the highlighted projectile, or false.
func (p *ProjectilePanel) Selected() (types.Projectile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.projectiles) {
		return types.Projectile{}, false
	}
	return p.projectiles[p.selected], true
}

func (p *ProjectilePanel) syncActive() {
	if proj, ok := p.Selected(); ok {
		p.deps.Store.Set(store.Patch{ActiveProjectile: &proj.ID})
	}
}

// View renders the projectile list with the selected entry's stats and any
// validation findings.
func (p *ProjectilePanel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Projectiles"))
	b.WriteString("\n")
	if len(p.projectiles) == 0 {
		b.WriteString(dimStyle.Render("no projectiles"))
		return b.String()
	}
	for i, proj := range p.projectiles {
		line := "  " + proj.ID
		if i == p.selected {
			line = selectedStyle.Render("> " + proj.ID)
		}
		b.WriteString(line + "\n")
		if i == p.selected {
			b.WriteString(fmt.Sprintf("    %s %s  %s %.1f  %s %d\n",
				labelStyle.Render("sprite"), proj.Sprite,
				labelStyle.Render("speed"), proj.Speed,
				labelStyle.Render("damage"), proj.Damage))
			if proj.Pattern != "" {
				b.WriteString("    " + labelStyle.Render("pattern") + " " + proj.Pattern + "\n")
			}
			for _, issue := range content.ValidateProjectile(proj) {
				b.WriteString("    " + warnStyle.Render("! "+issue) + "\n")
			}
		}
	}
	return b.String()
}

func (p *ProjectilePanel) metadata() string {
	proj, ok := p.Selected()
	if !ok {
		return dimStyle.Render("no selection")
	}
	issues := content.ValidateProjectile(proj)
	status := "ok"
	if len(issues) > 0 {
		status = warnStyle.Render(fmt.Sprintf("%d issues", len(issues)))
	}
	return fmt.Sprintf("%s  speed %.1f  damage %d  %s",
		labelStyle.Render(proj.ID), proj.Speed, proj.Damage, status)
}

func (p *ProjectilePanel) refresh() {
	setRegionContent(p.deps.Regions, regionFor(types.ModeProjectile), p.View())
	setRegionContent(p.deps.Regions, coordinator.RegionMetadata, p.metadata())
}
