package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Sidebar sizing
	SidebarMinWidth    = 28  // Minimum sidebar width in cells
	SidebarWidthRatio  = 30  // Sidebar width as percent of terminal width
	SidebarNarrowLimit = 90  // Below this terminal width the sidebar takes half

	// Vertical layout
	StatusBarHeight     = 1 // Single status line at the bottom
	MetadataStripHeight = 1 // Metadata strip under the main panel
	PanelBorderLines    = 2 // Lines consumed by top and bottom borders

	// Horizontal layout
	PanelBorderWidth  = 2 // Cells consumed by left and right borders
	PanelPaddingWidth = 2 // Inner padding of the main panel
)
