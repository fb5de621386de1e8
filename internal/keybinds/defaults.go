package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerScriptBindings(r)
	registerNoteBindings(r)
	registerQuestBindings(r)
	registerTextInputBindings(r)
	registerConfirmBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in every panel
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "q", ActionQuit)
	r.Register(ContextGlobal, "?", ActionOpenHelp)

	// Panel switching
	r.Register(ContextGlobal, "1", ActionModeScript)
	r.Register(ContextGlobal, "2", ActionModeProperty)
	r.Register(ContextGlobal, "3", ActionModeNote)
	r.Register(ContextGlobal, "4", ActionModeProjectile)
	r.Register(ContextGlobal, "5", ActionModeQuest)
	r.Register(ContextGlobal, "0", ActionModeNone)
	r.Register(ContextGlobal, "esc", ActionModeNone)

	// List navigation
	r.RegisterMultiple(ContextGlobal, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextGlobal, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextGlobal, "g", ActionGoToTopPrepare)
	r.Register(ContextGlobal, "gg", ActionGoToTop)
	r.Register(ContextGlobal, "G", ActionGoToBottom)
	r.Register(ContextGlobal, "home", ActionGoToTop)
	r.Register(ContextGlobal, "end", ActionGoToBottom)

	r.Register(ContextGlobal, "b", ActionToggleSidebar)
	r.Register(ContextGlobal, "r", ActionReload)
}

// registerScriptBindings sets up keybindings for the script panel
func registerScriptBindings(r *Registry) {
	r.Register(ContextScript, "enter", ActionOpenScript)
	r.Register(ContextScript, "i", ActionEditScript)
	r.Register(ContextScript, "/", ActionOpenFilter)
}

// The property and projectile panels only use navigation and the globals.

func registerNoteBindings(r *Registry) {
	r.Register(ContextNote, "c", ActionCopyNote)
}

// registerQuestBindings sets up keybindings for the quest panel
func registerQuestBindings(r *Registry) {
	r.RegisterMultiple(ContextQuest, []string{"right", "l"}, ActionNextStage)
	r.RegisterMultiple(ContextQuest, []string{"left", "h"}, ActionPrevStage)
	r.Register(ContextQuest, "enter", ActionJumpToScript)
}

// registerTextInputBindings sets up bindings while a text input is focused
func registerTextInputBindings(r *Registry) {
	r.Register(ContextTextInput, "enter", ActionTextSubmit)
	r.Register(ContextTextInput, "esc", ActionTextCancel)
}

// registerConfirmBindings sets up bindings for confirmation prompts
func registerConfirmBindings(r *Registry) {
	r.RegisterMultiple(ContextConfirm, []string{"y", "Y", "enter"}, ActionConfirm)
	r.RegisterMultiple(ContextConfirm, []string{"n", "N", "esc"}, ActionCancel)
}
