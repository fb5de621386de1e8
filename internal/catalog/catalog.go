// Package catalog wraps the SQLite database holding durable editor state:
// the persisted settings slice of the application state and the per-mode
// edit history.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"lorebench/internal/migrations"
	"lorebench/internal/types"
)

// settingsKey is the fixed key the settings slice is stored under.
const settingsKey = "settings"

// Manager provides access to the catalog database.
type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the catalog at dbPath and brings
// the schema up to date.
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to catalog database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// LoadSettings returns the persisted settings, or nil when none have been
// stored yet.
func (m *Manager) LoadSettings() (*types.Settings, error) {
	var raw string
	err := m.db.QueryRow("SELECT value FROM settings WHERE key = ?", settingsKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s types.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	return &s, nil
}

// SaveSettings persists the settings slice under the fixed key.
func (m *Manager) SaveSettings(s *types.Settings) error {
	if s == nil {
		return fmt.Errorf("cannot persist nil settings")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = m.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, settingsKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// RecordEdit appends one edit history row.
func (m *Manager) RecordEdit(mode types.Mode, path, summary string) error {
	_, err := m.db.Exec(
		"INSERT INTO edits (mode, path, summary) VALUES (?, ?, ?)",
		string(mode), path, summary,
	)
	if err != nil {
		return fmt.Errorf("failed to record edit: %w", err)
	}
	return nil
}

// RecentEdits returns the newest edit rows, most recent first.
func (m *Manager) RecentEdits(limit int) ([]types.EditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := m.db.Query(`
		SELECT id, timestamp, mode, path, COALESCE(summary, '')
		FROM edits
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	var entries []types.EditEntry
	for rows.Next() {
		var e types.EditEntry
		var mode string
		if err := rows.Scan(&e.ID, &e.Timestamp, &mode, &e.Path, &e.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan edit row: %w", err)
		}
		e.Mode = types.Mode(mode)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EditsForMode returns the newest edit rows for one mode.
func (m *Manager) EditsForMode(mode types.Mode, limit int) ([]types.EditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := m.db.Query(`
		SELECT id, timestamp, mode, path, COALESCE(summary, '')
		FROM edits
		WHERE mode = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, string(mode), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query edits: %w", err)
	}
	defer rows.Close()

	var entries []types.EditEntry
	for rows.Next() {
		var e types.EditEntry
		var raw string
		if err := rows.Scan(&e.ID, &e.Timestamp, &raw, &e.Path, &e.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan edit row: %w", err)
		}
		e.Mode = types.Mode(raw)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearEdits removes all edit history rows.
func (m *Manager) ClearEdits() error {
	_, err := m.db.Exec("DELETE FROM edits")
	if err != nil {
		return fmt.Errorf("failed to clear edits: %w", err)
	}
	return nil
}
