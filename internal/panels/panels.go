/*
Package panels implements the five content panels: script, property, note,
projectile and quest.

# Overview

Each panel owns its own view state (selection, filter, scroll) and registers
lifecycle callbacks with the coordinator: OnInit loads workspace documents
once, OnShow restores the stashed view state and renders, OnHide stashes it.
Panels never toggle region visibility themselves; they only fill region
content and let the coordinator decide what is on screen.
*/
package panels

import (
	"lorebench/internal/catalog"
	"lorebench/internal/coordinator"
	"lorebench/internal/editor"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

// Regions is the rendering side panels write into. The TUI region registry
// implements it.
type Regions interface {
	SetContent(id, content string)
}

// Deps carries the collaborators every panel shares. Catalog may be nil when
// edit history is disabled.
type Deps struct {
	Workspace string
	Store     *store.Store
	Coord     *coordinator.Coordinator
	Regions   Regions
	Editor    *editor.Surface
	Catalog   *catalog.Manager
}

// Set bundles the constructed panels for the TUI shell.
type Set struct {
	Script     *ScriptPanel
	Property   *PropertyPanel
	Note       *NotePanel
	Projectile *ProjectilePanel
	Quest      *QuestPanel
}

// RegisterAll constructs every panel and attaches its callbacks to the
// coordinator.
func RegisterAll(deps Deps) *Set {
	s := &Set{
		Script:     NewScriptPanel(deps),
		Property:   NewPropertyPanel(deps),
		Note:       NewNotePanel(deps),
		Projectile: NewProjectilePanel(deps),
		Quest:      NewQuestPanel(deps),
	}
	s.Script.Register()
	s.Property.Register()
	s.Note.Register()
	s.Projectile.Register()
	s.Quest.Register()
	return s
}

func setRegionContent(regions Regions, id, content string) {
	if regions != nil {
		regions.SetContent(id, content)
	}
}

// regionFor resolves a mode's panel region from the static config table.
func regionFor(mode types.Mode) string {
	return coordinator.DefaultPanelConfigs()[mode].RegionID
}
