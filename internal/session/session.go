// Package session persists lightweight UI state between runs: the last
// workspace, the last panel, and recently opened files.
package session

import (
	"encoding/json"
	"fmt"
	"os"

	"lorebench/internal/config"
	"lorebench/internal/types"
)

// Session is the on-disk session document.
type Session struct {
	LastWorkspace string     `json:"lastWorkspace,omitempty"`
	LastMode      types.Mode `json:"lastMode,omitempty"`
	RecentFiles   []string   `json:"recentFiles"`
}

// Manager handles session persistence
type Manager struct {
	session *Session
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		session: &Session{RecentFiles: []string{}},
	}
}

// Load loads the session file. A missing file yields a default session.
func (m *Manager) Load() error {
	sessionPath := config.GetSessionFilePath()

	data, err := os.ReadFile(sessionPath)
	if err != nil {
		m.session = &Session{RecentFiles: []string{}}
		return nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.RecentFiles == nil {
		session.RecentFiles = []string{}
	}
	if session.LastMode != "" && !session.LastMode.Valid() {
		session.LastMode = types.ModeNone
	}

	m.session = &session
	return nil
}

// Save saves the session to disk
func (m *Manager) Save() error {
	sessionPath := config.GetSessionFilePath()

	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(sessionPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// GetSession returns the current session
func (m *Manager) GetSession() *Session {
	return m.session
}

// LastWorkspace returns the workspace used by the previous run, or "".
func (m *Manager) LastWorkspace() string {
	return m.session.LastWorkspace
}

// SetLastWorkspace records the workspace and saves.
func (m *Manager) SetLastWorkspace(dir string) error {
	m.session.LastWorkspace = dir
	return m.Save()
}

// LastMode returns the panel that was open when the previous run ended.
func (m *Manager) LastMode() types.Mode {
	return m.session.LastMode
}

// SetLastMode records the open panel and saves.
func (m *Manager) SetLastMode(mode types.Mode) error {
	m.session.LastMode = mode
	return m.Save()
}

// AddRecentFile adds a file to the MRU (Most Recently Used) list.
// The file moves to the front, duplicates are removed, and the list is
// capped at maxRecentFiles entries.
func (m *Manager) AddRecentFile(filePath string) error {
	const maxRecentFiles = 10

	if m.session.RecentFiles == nil {
		m.session.RecentFiles = []string{}
	}

	newRecent := []string{}
	for _, f := range m.session.RecentFiles {
		if f != filePath {
			newRecent = append(newRecent, f)
		}
	}

	newRecent = append([]string{filePath}, newRecent...)

	if len(newRecent) > maxRecentFiles {
		newRecent = newRecent[:maxRecentFiles]
	}

	m.session.RecentFiles = newRecent
	return m.Save()
}

// GetRecentFiles returns the MRU file list
func (m *Manager) GetRecentFiles() []string {
	if m.session.RecentFiles == nil {
		return []string{}
	}
	return m.session.RecentFiles
}
