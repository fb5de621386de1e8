package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal     Context = "global"     // Available everywhere
	ContextScript     Context = "script"     // Script panel
	ContextProperty   Context = "property"   // Property panel
	ContextNote       Context = "note"       // Note panel
	ContextProjectile Context = "projectile" // Projectile panel
	ContextQuest      Context = "quest"      // Quest panel
	ContextTextInput  Context = "text_input" // Text input (filter, editor chrome)
	ContextConfirm    Context = "confirm"    // Confirmation prompts
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)
	ActionOpenHelp  Action = "open_help"  // Open help viewer

	// Mode switching
	ActionModeScript     Action = "mode_script"     // Switch to script panel
	ActionModeProperty   Action = "mode_property"   // Switch to property panel
	ActionModeNote       Action = "mode_note"       // Switch to note panel
	ActionModeProjectile Action = "mode_projectile" // Switch to projectile panel
	ActionModeQuest      Action = "mode_quest"      // Switch to quest panel
	ActionModeNone       Action = "mode_none"       // Close the current panel

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Shared panel actions
	ActionToggleSidebar Action = "toggle_sidebar" // Toggle the script list sidebar
	ActionReload        Action = "reload"         // Reload workspace documents
	ActionOpenFilter    Action = "open_filter"    // Open fuzzy filter input

	// Script panel actions
	ActionOpenScript Action = "open_script" // Load selected script into the editor
	ActionEditScript Action = "edit_script" // Focus the editor surface
	ActionLeaveEdit  Action = "leave_edit"  // Return focus to the list

	// Note panel actions
	ActionCopyNote Action = "copy_note" // Copy note body to clipboard

	// Quest panel actions
	ActionNextStage    Action = "next_stage"     // Advance stage cursor
	ActionPrevStage    Action = "prev_stage"     // Retreat stage cursor
	ActionJumpToScript Action = "jump_to_script" // Open the stage's script

	// Text input actions
	ActionTextSubmit Action = "text_submit" // Submit text input
	ActionTextCancel Action = "text_cancel" // Cancel text input

	// Confirmation actions
	ActionConfirm Action = "confirm" // Confirm (y/Y)
	ActionCancel  Action = "cancel"  // Cancel (n/N, esc)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	infos := map[Action]ActionInfo{
		ActionQuit:           {ActionQuit, "Quit application", "Global"},
		ActionQuitForce:      {ActionQuitForce, "Force quit", "Global"},
		ActionOpenHelp:       {ActionOpenHelp, "Open help", "Global"},
		ActionModeScript:     {ActionModeScript, "Script panel", "Panels"},
		ActionModeProperty:   {ActionModeProperty, "Property panel", "Panels"},
		ActionModeNote:       {ActionModeNote, "Note panel", "Panels"},
		ActionModeProjectile: {ActionModeProjectile, "Projectile panel", "Panels"},
		ActionModeQuest:      {ActionModeQuest, "Quest panel", "Panels"},
		ActionModeNone:       {ActionModeNone, "Close panel", "Panels"},
		ActionNavigateUp:     {ActionNavigateUp, "Move up", "Navigation"},
		ActionNavigateDown:   {ActionNavigateDown, "Move down", "Navigation"},
		ActionGoToTop:        {ActionGoToTop, "Go to top", "Navigation"},
		ActionGoToBottom:     {ActionGoToBottom, "Go to bottom", "Navigation"},
		ActionToggleSidebar:  {ActionToggleSidebar, "Toggle sidebar", "View"},
		ActionReload:         {ActionReload, "Reload workspace", "View"},
		ActionOpenFilter:     {ActionOpenFilter, "Filter list", "View"},
		ActionOpenScript:     {ActionOpenScript, "Open script", "Script"},
		ActionEditScript:     {ActionEditScript, "Edit script", "Script"},
		ActionCopyNote:       {ActionCopyNote, "Copy note body", "Note"},
		ActionNextStage:      {ActionNextStage, "Next stage", "Quest"},
		ActionPrevStage:      {ActionPrevStage, "Previous stage", "Quest"},
		ActionJumpToScript:   {ActionJumpToScript, "Open stage script", "Quest"},
	}

	if info, ok := infos[action]; ok {
		return info
	}

	return ActionInfo{action, string(action), "Unknown"}
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	globalActions := map[Action]bool{
		ActionQuit:      true,
		ActionQuitForce: true,
		ActionOpenHelp:  true,
	}
	return globalActions[action]
}

// ContextForMode maps a mode name to its keybinding context. Unknown names
// fall back to the global context.
func ContextForMode(mode string) Context {
	switch mode {
	case "script":
		return ContextScript
	case "property":
		return ContextProperty
	case "note":
		return ContextNote
	case "projectile":
		return ContextProjectile
	case "quest":
		return ContextQuest
	}
	return ContextGlobal
}
