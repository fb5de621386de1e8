package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Config represents the user's keybinding configuration
type Config struct {
	Version    string            `json:"version"`
	Global     map[string]string `json:"global,omitempty"`
	Script     map[string]string `json:"script,omitempty"`
	Property   map[string]string `json:"property,omitempty"`
	Note       map[string]string `json:"note,omitempty"`
	Projectile map[string]string `json:"projectile,omitempty"`
	Quest      map[string]string `json:"quest,omitempty"`
	TextInput  map[string]string `json:"text_input,omitempty"`
	Confirm    map[string]string `json:"confirm,omitempty"`
}

// LoadConfig loads keybinding configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid keybinds.json format: %w", err)
	}

	return &config, nil
}

// SaveConfig saves keybinding configuration to a JSON file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyConfig applies user configuration to a registry.
// User bindings override default bindings.
func ApplyConfig(registry *Registry, config *Config) error {
	contextMappings := map[Context]map[string]string{
		ContextGlobal:     config.Global,
		ContextScript:     config.Script,
		ContextProperty:   config.Property,
		ContextNote:       config.Note,
		ContextProjectile: config.Projectile,
		ContextQuest:      config.Quest,
		ContextTextInput:  config.TextInput,
		ContextConfirm:    config.Confirm,
	}

	for context, bindings := range contextMappings {
		for action, keys := range bindings {
			// Comma-separated lists bind several keys to one action.
			for _, key := range strings.Split(keys, ",") {
				key = strings.TrimSpace(key)
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("invalid key for %s in context '%s': %w", action, context, err)
				}
				registry.Register(context, key, Action(action))
			}
		}
	}

	return nil
}

// LoadOrDefault loads user config if it exists, otherwise returns the
// default registry. A missing config file is not an error.
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		config, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds.json: %w", err)
		}

		if err := ApplyConfig(registry, config); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults exports a starter config documenting the customization
// points. Written by the CLI on request, never automatically.
func ExportDefaults() *Config {
	return &Config{
		Version: "1.0",
		Global: map[string]string{
			"quit":            "q",
			"mode_script":     "1",
			"mode_property":   "2",
			"mode_note":       "3",
			"mode_projectile": "4",
			"mode_quest":      "5",
			"mode_none":       "0",
			"toggle_sidebar":  "b",
			"reload":          "r",
		},
		Script: map[string]string{
			"open_script": "enter",
			"edit_script": "i",
			"open_filter": "/",
		},
		Note: map[string]string{
			"copy_note": "c",
		},
		Quest: map[string]string{
			"next_stage":     "l",
			"prev_stage":     "h",
			"jump_to_script": "enter",
		},
	}
}
