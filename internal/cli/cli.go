// Package cli implements the headless commands: workspace validation,
// content export and edit history inspection.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lorebench/internal/catalog"
	"lorebench/internal/config"
	"lorebench/internal/content"
	"lorebench/internal/types"
)

// ValidateOptions contains options for the validate command
type ValidateOptions struct {
	Workspace string
	Format    string // text, json
}

// Validate checks every workspace document and prints the findings.
// Returns an error when any finding exists so the exit code is non-zero.
func Validate(opts ValidateOptions) error {
	workspace, err := config.ResolveWorkspace(opts.Workspace)
	if err != nil {
		return err
	}

	issues, err := content.ValidateWorkspace(workspace)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "text":
		if len(issues) == 0 {
			fmt.Println("No issues found")
			return nil
		}
		for _, issue := range issues {
			fmt.Println(issue.String())
		}
	case "json":
		out := make([]map[string]string, 0, len(issues))
		for _, issue := range issues {
			out = append(out, map[string]string{"path": issue.Path, "message": issue.Message})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal findings: %w", err)
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}

	if len(issues) > 0 {
		return fmt.Errorf("%d validation issues", len(issues))
	}
	return nil
}

// exportBundle is the document tree written by the export command.
type exportBundle struct {
	Quests      []types.Quest       `json:"quests" yaml:"quests"`
	Projectiles []types.Projectile  `json:"projectiles" yaml:"projectiles"`
	Properties  []types.PropertyBag `json:"properties" yaml:"properties"`
	Notes       []types.Note        `json:"notes" yaml:"notes"`
	Scripts     []string            `json:"scripts" yaml:"scripts"`
}

// ExportOptions contains options for the export command
type ExportOptions struct {
	Workspace  string
	OutputPath string // empty writes to stdout
	Format     string // yaml, json
}

// Export bundles every workspace document into a single file, for handing
// the content set to the game's build pipeline.
func Export(opts ExportOptions) error {
	workspace, err := config.ResolveWorkspace(opts.Workspace)
	if err != nil {
		return err
	}

	bundle, err := collectBundle(workspace)
	if err != nil {
		return err
	}

	var data []byte
	switch opts.Format {
	case "", "yaml":
		data, err = yaml.Marshal(bundle)
	case "json":
		data, err = json.MarshalIndent(bundle, "", "  ")
	default:
		return fmt.Errorf("unknown format: %s", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	if opts.OutputPath == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := os.WriteFile(opts.OutputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	fmt.Printf("Exported workspace to %s\n", opts.OutputPath)
	return nil
}

func collectBundle(workspace string) (*exportBundle, error) {
	quests, err := content.LoadQuests(workspace)
	if err != nil {
		return nil, err
	}
	projectiles, err := content.LoadProjectiles(workspace)
	if err != nil {
		return nil, err
	}
	properties, err := content.LoadProperties(workspace)
	if err != nil {
		return nil, err
	}
	notes, err := content.LoadNotes(workspace)
	if err != nil {
		return nil, err
	}
	scripts, err := content.ListScripts(workspace)
	if err != nil {
		return nil, err
	}
	return &exportBundle{
		Quests:      quests,
		Projectiles: projectiles,
		Properties:  properties,
		Notes:       notes,
		Scripts:     scripts,
	}, nil
}

// EditsOptions contains options for the edits command
type EditsOptions struct {
	Mode  string // filter by panel, empty for all
	Limit int
	Clear bool
	Yes   bool // skip the confirmation prompt
}

// Edits prints or clears the catalog's edit history.
func Edits(opts EditsOptions) error {
	cat, err := catalog.NewManager(config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer cat.Close()

	if opts.Clear {
		if !opts.Yes && !confirm("Clear the entire edit history?") {
			return fmt.Errorf("cancelled")
		}
		if err := cat.ClearEdits(); err != nil {
			return err
		}
		fmt.Println("Edit history cleared")
		return nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var entries []types.EditEntry
	if opts.Mode != "" {
		mode := types.Mode(opts.Mode)
		if !mode.Valid() {
			return fmt.Errorf("unknown mode: %s", opts.Mode)
		}
		entries, err = cat.EditsForMode(mode, limit)
	} else {
		entries, err = cat.RecentEdits(limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No edits recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s  %-30s  %s\n", e.Timestamp, e.Mode, e.Path, e.Summary)
	}
	return nil
}

// confirm asks a yes/no question on stderr and reads the answer from stdin
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
