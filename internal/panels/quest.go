package panels

import (
	"fmt"
	"strings"
	"sync"

	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/store"
	"lorebench/internal/types"
)

type questViewState struct {
	Selected int
	Stage    int
}

// QuestPanel browses quest documents stage by stage. The script list region
// accompanies it so stage scripts can be jumped to.
type QuestPanel struct {
	deps Deps

	mu       sync.Mutex
	quests   []types.Quest
	selected int
	stage    int
}

// NewQuestPanel creates the panel. Documents load on first show.
func NewQuestPanel(deps Deps) *QuestPanel {
	return &QuestPanel{deps: deps}
}

// Register attaches the panel's lifecycle callbacks.
func (p *QuestPanel) Register() {
	p.deps.Coord.RegisterPanelCallbacks(types.ModeQuest, coordinator.Callbacks{
		OnInit: p.load,
		OnShow: p.show,
		OnHide: p.hide,
	})
}

func (p *QuestPanel) load() error {
	quests, err := content.LoadQuests(p.deps.Workspace)
	if err != nil {
		return fmt.Errorf("failed to load quests: %w", err)
	}
	p.mu.Lock()
	p.quests = quests
	p.selected = 0
	p.stage = 0
	p.mu.Unlock()
	return nil
}

func (p *QuestPanel) show() error {
	if blob, ok := p.deps.Coord.PanelState(types.ModeQuest).(questViewState); ok {
		p.mu.Lock()
		if blob.Selected < len(p.quests) {
			p.selected = blob.Selected
			p.stage = blob.Stage
		}
		p.mu.Unlock()
	}
	p.syncActive()
	p.refresh()
	return nil
}

func (p *QuestPanel) hide() error {
	p.mu.Lock()
	blob := questViewState{Selected: p.selected, Stage: p.stage}
	p.mu.Unlock()
	p.deps.Coord.SetPanelState(types.ModeQuest, blob)
	return nil
}

// Reload re-reads the quest documents.
func (p *QuestPanel) Reload() error {
	if err := p.load(); err != nil {
		return err
	}
	p.refresh()
	return nil
}

// Move shifts the quest selection by delta, clamped to the list bounds.
func (p *QuestPanel) Move(delta int) {
	p.mu.Lock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if n := len(p.quests); n > 0 && p.selected >= n {
		p.selected = n - 1
	}
	p.stage = 0
	p.mu.Unlock()
	p.syncActive()
	p.refresh()
}

// MoveStage shifts the stage cursor within the selected quest.
func (p *QuestPanel) MoveStage(delta int) {
	p.mu.Lock()
	if p.selected >= 0 && p.selected < len(p.quests) {
		p.stage += delta
		if p.stage < 0 {
			p.stage = 0
		}
		if n := len(p.quests[p.selected].Stages); n > 0 && p.stage >= n {
			p.stage = n - 1
		}
	}
	p.mu.Unlock()
	p.refresh()
}

// Selected returns the highlighted quest, or false.
func (p *QuestPanel) Selected() (types.Quest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.quests) {
		return types.Quest{}, false
	}
	return p.quests[p.selected], true
}

// StageScript returns the script referenced by the current stage, or "".
func (p *QuestPanel) StageScript() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.quests) {
		return ""
	}
	stages := p.quests[p.selected].Stages
	if p.stage < 0 || p.stage >= len(stages) {
		return ""
	}
	return stages[p.stage].Script
}

func (p *QuestPanel) syncActive() {
	if q, ok := p.Selected(); ok {
		p.deps.Store.Set(store.Patch{ActiveQuest: &q.ID})
	}
}

// View renders the quest list with the selected quest's stages expanded.
func (p *QuestPanel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quests"))
	b.WriteString("\n")
	if len(p.quests) == 0 {
		b.WriteString(dimStyle.Render("no quests"))
		return b.String()
	}
	for i, q := range p.quests {
		line := "  " + q.Title
		if i == p.selected {
			line = selectedStyle.Render("> " + q.Title)
		}
		b.WriteString(line + "\n")
		if i != p.selected {
			continue
		}
		if q.Giver != "" {
			b.WriteString("    " + labelStyle.Render("giver") + " " + q.Giver + "\n")
		}
		for j, stage := range q.Stages {
			marker := "    "
			if j == p.stage {
				marker = "  * "
			}
			b.WriteString(marker + fmt.Sprintf("%d. %s", j+1, stage.Objective))
			if stage.Script != "" {
				b.WriteString(dimStyle.Render(" [" + stage.Script + "]"))
			}
			b.WriteString("\n")
		}
		if q.Reward != "" {
			b.WriteString("    " + labelStyle.Render("reward") + " " + q.Reward + "\n")
		}
		for _, issue := range content.ValidateQuest(q) {
			b.WriteString("    " + warnStyle.Render("! "+issue) + "\n")
		}
	}
	return b.String()
}

func (p *QuestPanel) metadata() string {
	q, ok := p.Selected()
	if !ok {
		return dimStyle.Render("no selection")
	}
	tags := ""
	if len(q.Tags) > 0 {
		tags = "  " + dimStyle.Render(strings.Join(q.Tags, ", "))
	}
	return fmt.Sprintf("%s  %d stages%s", labelStyle.Render(q.ID), len(q.Stages), tags)
}

func (p *QuestPanel) refresh() {
	setRegionContent(p.deps.Regions, regionFor(types.ModeQuest), p.View())
	setRegionContent(p.deps.Regions, coordinator.RegionMetadata, p.metadata())
}
