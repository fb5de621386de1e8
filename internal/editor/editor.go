// Package editor implements the script-editing surface. The coordinator
// only consumes two operations from it: Ready and Relayout; everything
// else is used by the script panel and the TUI shell.
package editor

import (
	"bytes"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Surface wraps a textarea with syntax highlighting for its read view.
type Surface struct {
	mu     sync.Mutex
	ta     textarea.Model
	ready  bool
	path   string
	theme  string
	width  int
	height int
}

// New creates an uninitialized surface. It becomes ready on the first Load.
func New() *Surface {
	ta := textarea.New()
	ta.Placeholder = "No script loaded"
	ta.CharLimit = 0
	return &Surface{
		ta:    ta,
		theme: "monokai",
	}
}

// Load replaces the buffer with a script file's contents.
func (s *Surface) Load(path, contents string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.ta.SetValue(contents)
	s.ready = true
}

// Path returns the loaded script path, or "".
func (s *Surface) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Value returns the current buffer contents.
func (s *Surface) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ta.Value()
}

// Ready reports whether the surface has been initialized with content.
func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// SetTheme selects the chroma style for the highlighted view.
func (s *Surface) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if theme != "" {
		s.theme = theme
	}
}

// SetSize records the layout box and sizes the textarea to it.
func (s *Surface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
	s.applySize()
}

// Relayout recalculates the textarea layout against the last known box.
// Called after a panel transition activates an editor mode, because the
// surface may have been sized while its panel was hidden.
func (s *Surface) Relayout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applySize()
}

func (s *Surface) applySize() {
	if s.width > 0 {
		s.ta.SetWidth(s.width)
	}
	if s.height > 0 {
		s.ta.SetHeight(s.height)
	}
}

// Focus gives the textarea input focus.
func (s *Surface) Focus() tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ta.Focus()
}

// Blur removes input focus.
func (s *Surface) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ta.Blur()
}

// Focused reports whether the textarea has input focus.
func (s *Surface) Focused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ta.Focused()
}

// Update forwards a bubbletea message to the textarea.
func (s *Surface) Update(msg tea.Msg) tea.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cmd tea.Cmd
	s.ta, cmd = s.ta.Update(msg)
	return cmd
}

// View renders the editable textarea.
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ta.View()
}

// HighlightedView renders the buffer with lua syntax highlighting, for the
// read-only presentation of the script panel.
func (s *Surface) HighlightedView() string {
	s.mu.Lock()
	source := s.ta.Value()
	theme := s.theme
	s.mu.Unlock()
	return Highlight(source, theme)
}

// Highlight renders lua source for a 256-color terminal. Falls back to the
// raw source when highlighting fails.
func Highlight(source, theme string) string {
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, "lua", "terminal256", theme); err != nil {
		return source
	}
	return buf.String()
}
