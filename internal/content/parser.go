// Package content loads and validates workspace documents: lua scripts,
// and yaml definitions for quests, projectiles, properties and notes. It
// also watches the workspace for external edits.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"lorebench/internal/types"
)

// Workspace subdirectories, one per content kind.
const (
	ScriptsDir     = "scripts"
	QuestsDir      = "quests"
	ProjectilesDir = "projectiles"
	PropertiesDir  = "properties"
	NotesDir       = "notes"
)

// Issue is one validation finding, reported with the file it came from.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ListScripts returns workspace-relative lua script paths, sorted.
func ListScripts(workspace string) ([]string, error) {
	dir := filepath.Join(workspace, ScriptsDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}

	var scripts []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		scripts = append(scripts, filepath.Join(ScriptsDir, entry.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// ReadScript reads one script by its workspace-relative path.
func ReadScript(workspace, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(workspace, rel))
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", rel, err)
	}
	return string(data), nil
}

// LoadQuests parses every quest document in the workspace.
func LoadQuests(workspace string) ([]types.Quest, error) {
	var quests []types.Quest
	err := loadYAMLDir(workspace, QuestsDir, func(path string, data []byte) error {
		var q types.Quest
		if err := yaml.Unmarshal(data, &q); err != nil {
			return fmt.Errorf("failed to parse quest %s: %w", path, err)
		}
		quests = append(quests, q)
		return nil
	})
	return quests, err
}

// LoadProjectiles parses every projectile document in the workspace.
func LoadProjectiles(workspace string) ([]types.Projectile, error) {
	var projectiles []types.Projectile
	err := loadYAMLDir(workspace, ProjectilesDir, func(path string, data []byte) error {
		var p types.Projectile
		if err := yaml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("failed to parse projectile %s: %w", path, err)
		}
		projectiles = append(projectiles, p)
		return nil
	})
	return projectiles, err
}

// LoadProperties parses every property bag document in the workspace.
func LoadProperties(workspace string) ([]types.PropertyBag, error) {
	var bags []types.PropertyBag
	err := loadYAMLDir(workspace, PropertiesDir, func(path string, data []byte) error {
		var b types.PropertyBag
		if err := yaml.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("failed to parse properties %s: %w", path, err)
		}
		bags = append(bags, b)
		return nil
	})
	return bags, err
}

// LoadNotes parses every note document in the workspace.
func LoadNotes(workspace string) ([]types.Note, error) {
	var notes []types.Note
	err := loadYAMLDir(workspace, NotesDir, func(path string, data []byte) error {
		var n types.Note
		if err := yaml.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("failed to parse note %s: %w", path, err)
		}
		notes = append(notes, n)
		return nil
	})
	return notes, err
}

func loadYAMLDir(workspace, sub string, parse func(path string, data []byte) error) error {
	dir := filepath.Join(workspace, sub)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", sub, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := parse(filepath.Join(sub, name), data); err != nil {
			return err
		}
	}
	return nil
}

// ValidateQuest returns human-readable problems with a quest definition.
func ValidateQuest(q types.Quest) []string {
	var issues []string
	if q.ID == "" {
		issues = append(issues, "quest is missing an id")
	}
	if q.Title == "" {
		issues = append(issues, "quest is missing a title")
	}
	if len(q.Stages) == 0 {
		issues = append(issues, "quest has no stages")
	}
	for i, stage := range q.Stages {
		if stage.Objective == "" {
			issues = append(issues, fmt.Sprintf("stage %d has no objective", i+1))
		}
	}
	return issues
}

// ValidateProjectile returns human-readable problems with a projectile
// definition.
func ValidateProjectile(p types.Projectile) []string {
	var issues []string
	if p.ID == "" {
		issues = append(issues, "projectile is missing an id")
	}
	if p.Sprite == "" {
		issues = append(issues, "projectile is missing a sprite")
	}
	if p.Speed <= 0 {
		issues = append(issues, "projectile speed must be positive")
	}
	if p.Damage < 0 {
		issues = append(issues, "projectile damage cannot be negative")
	}
	switch p.Pattern {
	case "", "straight", "arc", "homing":
	default:
		issues = append(issues, fmt.Sprintf("unknown pattern %q", p.Pattern))
	}
	return issues
}

// ValidateWorkspace loads and validates every document, returning findings
// for the CLI validate command.
func ValidateWorkspace(workspace string) ([]Issue, error) {
	var issues []Issue

	quests, err := LoadQuests(workspace)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, q := range quests {
		for _, msg := range ValidateQuest(q) {
			issues = append(issues, Issue{Path: filepath.Join(QuestsDir, q.ID+".yaml"), Message: msg})
		}
		if q.ID != "" && seen[q.ID] {
			issues = append(issues, Issue{Path: QuestsDir, Message: fmt.Sprintf("duplicate quest id %q", q.ID)})
		}
		seen[q.ID] = true
	}

	projectiles, err := LoadProjectiles(workspace)
	if err != nil {
		return nil, err
	}
	for _, p := range projectiles {
		for _, msg := range ValidateProjectile(p) {
			issues = append(issues, Issue{Path: filepath.Join(ProjectilesDir, p.ID+".yaml"), Message: msg})
		}
	}

	// Quest stages may reference scripts; flag dangling references.
	scripts, err := ListScripts(workspace)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(scripts))
	for _, s := range scripts {
		known[filepath.Base(s)] = true
	}
	for _, q := range quests {
		for i, stage := range q.Stages {
			if stage.Script != "" && !known[stage.Script] {
				issues = append(issues, Issue{
					Path:    filepath.Join(QuestsDir, q.ID+".yaml"),
					Message: fmt.Sprintf("stage %d references missing script %q", i+1, stage.Script),
				})
			}
		}
	}

	return issues, nil
}
