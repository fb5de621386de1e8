package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lorebench/internal/types"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestListScriptsSorted(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ScriptsDir)
	writeFile(t, dir, "zone.lua", "")
	writeFile(t, dir, "boss.lua", "")
	writeFile(t, dir, "readme.txt", "")

	scripts, err := ListScripts(ws)
	if err != nil {
		t.Fatalf("ListScripts failed: %v", err)
	}

	if len(scripts) != 2 {
		t.Fatalf("Expected 2 scripts, got %d", len(scripts))
	}
	if scripts[0] != filepath.Join(ScriptsDir, "boss.lua") {
		t.Errorf("Expected sorted order, got %v", scripts)
	}
}

func TestListScriptsMissingDir(t *testing.T) {
	scripts, err := ListScripts(t.TempDir())
	if err != nil {
		t.Fatalf("ListScripts failed: %v", err)
	}
	if scripts != nil {
		t.Errorf("Expected no scripts, got %v", scripts)
	}
}

func TestLoadQuests(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, QuestsDir), "rescue.yaml", `
id: rescue-miller
title: Rescue the Miller
giver: elder-rowan
stages:
  - objective: Find the mill
    script: mill_intro.lua
  - objective: Defeat the bandits
reward: 120 gold
tags: [main, chapter-1]
`)

	quests, err := LoadQuests(ws)
	if err != nil {
		t.Fatalf("LoadQuests failed: %v", err)
	}

	if len(quests) != 1 {
		t.Fatalf("Expected 1 quest, got %d", len(quests))
	}
	q := quests[0]
	if q.ID != "rescue-miller" {
		t.Errorf("Expected quest id rescue-miller, got %q", q.ID)
	}
	if len(q.Stages) != 2 {
		t.Errorf("Expected 2 stages, got %d", len(q.Stages))
	}
	if q.Stages[0].Script != "mill_intro.lua" {
		t.Errorf("Expected stage script, got %q", q.Stages[0].Script)
	}
}

func TestLoadQuestsBadYAML(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, QuestsDir), "bad.yaml", "id: [unclosed")

	_, err := LoadQuests(ws)
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("Expected file name in error, got %v", err)
	}
}

func TestLoadProjectiles(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, ProjectilesDir), "fireball.yaml", `
id: fireball
sprite: fx/fireball.png
speed: 6.5
damage: 40
pattern: arc
`)

	projectiles, err := LoadProjectiles(ws)
	if err != nil {
		t.Fatalf("LoadProjectiles failed: %v", err)
	}
	if len(projectiles) != 1 {
		t.Fatalf("Expected 1 projectile, got %d", len(projectiles))
	}
	if projectiles[0].Speed != 6.5 {
		t.Errorf("Expected speed 6.5, got %v", projectiles[0].Speed)
	}
}

func TestLoadNotesAndProperties(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, NotesDir), "ideas.yaml", "title: Ideas\nbody: swamp level\n")
	writeFile(t, filepath.Join(ws, PropertiesDir), "boss.yaml", `
id: boss-props
target: npc/boss
values:
  hp: 500
  aggro: true
`)

	notes, err := LoadNotes(ws)
	if err != nil {
		t.Fatalf("LoadNotes failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "Ideas" {
		t.Errorf("Unexpected notes %v", notes)
	}

	bags, err := LoadProperties(ws)
	if err != nil {
		t.Fatalf("LoadProperties failed: %v", err)
	}
	if len(bags) != 1 || bags[0].Target != "npc/boss" {
		t.Errorf("Unexpected property bags %v", bags)
	}
}

func TestValidateQuest(t *testing.T) {
	issues := ValidateQuest(types.Quest{})
	if len(issues) != 3 {
		t.Errorf("Expected 3 issues for empty quest, got %v", issues)
	}

	ok := types.Quest{
		ID:     "q1",
		Title:  "Quest",
		Stages: []types.Stage{{Objective: "do the thing"}},
	}
	if issues := ValidateQuest(ok); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestValidateProjectile(t *testing.T) {
	issues := ValidateProjectile(types.Projectile{ID: "p", Sprite: "s.png", Speed: 1, Pattern: "spiral"})
	if len(issues) != 1 || !strings.Contains(issues[0], "spiral") {
		t.Errorf("Expected unknown pattern issue, got %v", issues)
	}

	if issues := ValidateProjectile(types.Projectile{ID: "p", Sprite: "s.png", Speed: 2, Pattern: "homing"}); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestValidateWorkspaceDanglingScript(t *testing.T) {
	ws := t.TempDir()
	writeFile(t, filepath.Join(ws, QuestsDir), "q.yaml", `
id: q1
title: Quest
stages:
  - objective: step one
    script: missing.lua
`)

	issues, err := ValidateWorkspace(ws)
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}

	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Message, "missing.lua") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected dangling script issue, got %v", issues)
	}
}

func TestValidateWorkspaceDuplicateQuestID(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, QuestsDir)
	writeFile(t, dir, "a.yaml", "id: q1\ntitle: A\nstages:\n  - objective: x\n")
	writeFile(t, dir, "b.yaml", "id: q1\ntitle: B\nstages:\n  - objective: y\n")

	issues, err := ValidateWorkspace(ws)
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}

	found := false
	for _, issue := range issues {
		if strings.Contains(issue.Message, "duplicate quest id") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected duplicate id issue, got %v", issues)
	}
}
