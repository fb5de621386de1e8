package coordinator

import (
	"lorebench/internal/types"
)

// Auxiliary region identifiers shared by every panel configuration.
const (
	// RegionEmpty is shown when no mode is current.
	RegionEmpty = "panel-empty"
	// RegionScriptList is the sidebar listing workspace scripts.
	RegionScriptList = "script-list"
	// RegionMetadata is the metadata strip under the main panel.
	RegionMetadata = "metadata-strip"
)

// PanelConfig describes the static layout of one mode's panel: which region
// represents it, which auxiliary regions accompany it, and whether the
// code-editing surface belongs to it. The mode enumeration and this table
// must stay in lock-step; a missing entry is a programming error.
type PanelConfig struct {
	RegionID       string
	ShowScriptList bool
	ShowMetadata   bool
	ShowEditor     bool
}

// Callbacks are the optional lifecycle hooks a panel module registers after
// the coordinator exists. OnInit runs once per mode, before the first
// OnShow. Errors are logged at the call site and never abort a transition.
type Callbacks struct {
	OnInit func() error
	OnShow func() error
	OnHide func() error
}

// DefaultPanelConfigs returns the static panel table, one entry per mode.
func DefaultPanelConfigs() map[types.Mode]PanelConfig {
	return map[types.Mode]PanelConfig{
		types.ModeScript: {
			RegionID:       "panel-script",
			ShowScriptList: true,
			ShowEditor:     true,
		},
		types.ModeProperty: {
			RegionID:     "panel-property",
			ShowMetadata: true,
		},
		types.ModeNote: {
			RegionID: "panel-note",
		},
		types.ModeProjectile: {
			RegionID:     "panel-projectile",
			ShowMetadata: true,
		},
		types.ModeQuest: {
			RegionID:       "panel-quest",
			ShowScriptList: true,
			ShowMetadata:   true,
		},
	}
}
