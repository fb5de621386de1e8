package types

// Mode identifies one of the mutually-exclusive editing contexts.
// ModeNone is the empty state: no panel visible, no mode current.
type Mode string

const (
	ModeScript     Mode = "script"
	ModeProperty   Mode = "property"
	ModeNote       Mode = "note"
	ModeProjectile Mode = "projectile"
	ModeQuest      Mode = "quest"
	ModeNone       Mode = ""
)

// AllModes returns every real editing mode, excluding ModeNone.
func AllModes() []Mode {
	return []Mode{ModeScript, ModeProperty, ModeNote, ModeProjectile, ModeQuest}
}

// Valid reports whether m is a known editing mode or the empty state.
func (m Mode) Valid() bool {
	switch m {
	case ModeScript, ModeProperty, ModeNote, ModeProjectile, ModeQuest, ModeNone:
		return true
	}
	return false
}

// String returns the mode name, or "none" for the empty state.
func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	return string(m)
}

// Settings is the durable configuration slice of the application state.
// It is the only part of AppState that is mirrored to the catalog whenever
// it changes. Held by pointer in AppState so change detection is identity
// based: callers must assign a new *Settings to signal a change.
type Settings struct {
	Theme           string `json:"theme"`
	EditorTabWidth  int    `json:"editor_tab_width"`
	SidebarWidth    int    `json:"sidebar_width"`
	ShowLineNumbers bool   `json:"show_line_numbers"`
	AutosaveSeconds int    `json:"autosave_seconds"`
}

// DefaultSettings returns the settings used when the catalog has no
// persisted entry yet.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:           "monokai",
		EditorTabWidth:  4,
		SidebarWidth:    30,
		ShowLineNumbers: true,
		AutosaveSeconds: 30,
	}
}

// Clone returns a copy of s suitable for mutate-and-set updates.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// AppState is the single shared application state record. It is exclusively
// owned by the store and mutated only through its write API; everything else
// receives value snapshots.
type AppState struct {
	UIMode           Mode
	Workspace        string
	ActiveScript     string
	ActiveQuest      string
	ActiveProjectile string
	StatusMessage    string
	SidebarVisible   bool
	ContentRevision  int
	Settings         *Settings
}
