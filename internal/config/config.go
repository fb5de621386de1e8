package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.lorebench)
	ConfigDir string

	// WorkspaceDir is the default content workspace directory
	WorkspaceDir string

	// DatabasePath is the SQLite catalog file for settings and edit history
	DatabasePath string

	// SessionFile is the session state file
	SessionFile string

	// KeybindsFile is the keybinding configuration file
	KeybindsFile string
)

// Initialize sets up the configuration directories and files.
// It creates ~/.lorebench/ if it doesn't exist. The LOREBENCH_CONFIG_DIR
// environment variable overrides the default location.
func Initialize() error {
	base := os.Getenv("LOREBENCH_CONFIG_DIR")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(homeDir, ".lorebench")
	}

	// Set global paths
	ConfigDir = base
	WorkspaceDir = filepath.Join(ConfigDir, "workspace")
	DatabasePath = filepath.Join(ConfigDir, "lorebench.db")
	SessionFile = filepath.Join(ConfigDir, ".session.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")

	// Create directories if they don't exist
	dirs := []string{ConfigDir, WorkspaceDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Create empty session file if it doesn't exist
	if _, err := os.Stat(SessionFile); os.IsNotExist(err) {
		defaultSession := []byte(`{"recentFiles":[]}`)
		if err := os.WriteFile(SessionFile, defaultSession, FilePermissions); err != nil {
			return fmt.Errorf("failed to create session file: %w", err)
		}
	}

	return nil
}

// ResolveWorkspace returns the workspace directory to edit.
// Falls back to the default workspace directory if dir is not set.
func ResolveWorkspace(dir string) (string, error) {
	if dir == "" {
		return WorkspaceDir, nil
	}

	// Expand tilde to home directory
	if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, dir[2:])
	}

	// If it's an absolute path, use it directly
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace %s: %w", dir, err)
	}
	return abs, nil
}

// GetSessionFilePath returns the session file path (local or global)
func GetSessionFilePath() string {
	if _, err := os.Stat(".session.json"); err == nil {
		return ".session.json"
	}
	return SessionFile
}

// GetKeybindsFilePath returns the keybinds file path (local or global)
func GetKeybindsFilePath() string {
	if _, err := os.Stat("keybinds.json"); err == nil {
		return "keybinds.json"
	}
	return KeybindsFile
}
