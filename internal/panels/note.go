package panels

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"lorebench/internal/content"
	"lorebench/internal/coordinator"
	"lorebench/internal/types"
)

type noteViewState struct {
	Selected int
}

// NotePanel browses free-form design notes.
type NotePanel struct {
	deps Deps

	mu       sync.Mutex
	notes    []types.Note
	selected int
}

// NewNotePanel creates the panel. Documents load on first show.
func NewNotePanel(deps Deps) *NotePanel {
	return &NotePanel{deps: deps}
}

// Register attaches the panel's lifecycle callbacks.
func (p *NotePanel) Register() {
	p.deps.Coord.RegisterPanelCallbacks(types.ModeNote, coordinator.Callbacks{
		OnInit: p.load,
		OnShow: p.show,
		OnHide: p.hide,
	})
}

func (p *NotePanel) load() error {
	notes, err := content.LoadNotes(p.deps.Workspace)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}
	p.mu.Lock()
	p.notes = notes
	p.selected = 0
	p.mu.Unlock()
	return nil
}

func (p *NotePanel) show() error {
	if blob, ok := p.deps.Coord.PanelState(types.ModeNote).(noteViewState); ok {
		p.mu.Lock()
		if blob.Selected < len(p.notes) {
			p.selected = blob.Selected
		}
		p.mu.Unlock()
	}
	p.refresh()
	return nil
}

func (p *NotePanel) hide() error {
	p.mu.Lock()
	blob := noteViewState{Selected: p.selected}
	p.mu.Unlock()
	p.deps.Coord.SetPanelState(types.ModeNote, blob)
	return nil
}

// Reload re-reads the note documents.
func (p *NotePanel) Reload() error {
	if err := p.load(); err != nil {
		return err
	}
	p.refresh()
	return nil
}

// Move shifts the selection by delta, clamped to the list bounds.
func (p *NotePanel) Move(delta int) {
	p.mu.Lock()
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if n := len(p.notes); n > 0 && p.selected >= n {
		p.selected = n - 1
	}
	p.mu.Unlock()
	p.refresh()
}

// Selected returns the highlighted note, or false.
func (p *NotePanel) Selected() (types.Note, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 || p.selected >= len(p.notes) {
		return types.Note{}, false
	}
	return p.notes[p.selected], true
}

// CopyBody puts the selected note's body on the system clipboard.
func (p *NotePanel) CopyBody() error {
	note, ok := p.Selected()
	if !ok {
		return nil
	}
	if err := clipboard.WriteAll(note.Body); err != nil {
		return fmt.Errorf("failed to copy note to clipboard: %w", err)
	}
	return nil
}

// View renders the note list with the selected body expanded.
func (p *NotePanel) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Notes"))
	b.WriteString("\n")
	if len(p.notes) == 0 {
		b.WriteString(dimStyle.Render("no notes"))
		return b.String()
	}
	for i, note := range p.notes {
		line := "  " + note.Title
		if i == p.selected {
			line = selectedStyle.Render("> " + note.Title)
		}
		b.WriteString(line + "\n")
		if i == p.selected && note.Body != "" {
			for _, bodyLine := range strings.Split(note.Body, "\n") {
				b.WriteString("    " + bodyLine + "\n")
			}
		}
	}
	return b.String()
}

func (p *NotePanel) refresh() {
	setRegionContent(p.deps.Regions, regionFor(types.ModeNote), p.View())
}
