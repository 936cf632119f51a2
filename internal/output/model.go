package output

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Severity tags appended text for presentational decoration. It never
// affects how content is stored or trimmed.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ChangeKind identifies the shape of a content mutation
type ChangeKind string

const (
	ChangeAppend ChangeKind = "append"
	ChangeTrim   ChangeKind = "trim"
	ChangeClear  ChangeKind = "clear"
)

// ContentChange describes a textual delta applied to a model
type ContentChange struct {
	Kind    ChangeKind `json:"kind"`
	Start   int        `json:"start"`
	Removed int        `json:"removed,omitempty"`
	Added   string     `json:"added,omitempty"`
}

// Line is one retained line of channel output
type Line struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Listener receives content change deltas
type Listener func(ContentChange)

// Model is a line-oriented append-only text buffer with a bounded
// scrollback. When the line count grows past the configured maximum the
// oldest lines are dropped so the buffer settles at max-1 lines.
type Model struct {
	mu        sync.Mutex
	lines     []Line
	open      bool // last line has no terminator yet
	maxLines  int  // 0 disables trimming
	listeners map[string]Listener
}

// NewModel creates an empty model bounded to maxLines
func NewModel(maxLines int) *Model {
	return &Model{
		maxLines:  maxLines,
		listeners: make(map[string]Listener),
	}
}

// Append inserts text at the end of the buffer. Text may contain embedded
// line terminators; a trailing terminator closes the last line.
func (m *Model) Append(text string, sev Severity) {
	if text == "" {
		return
	}
	m.mu.Lock()
	changes := m.appendLocked(text, sev)
	sinks := m.snapshotLocked()
	m.mu.Unlock()
	deliver(sinks, changes)
}

// AppendLine appends line as a complete line. If the buffer currently ends
// in an unterminated line, a terminator is inserted first to close it.
func (m *Model) AppendLine(line string, sev Severity) {
	m.mu.Lock()
	text := line + "\n"
	if m.open && len(m.lines) > 0 {
		text = "\n" + text
	}
	changes := m.appendLocked(text, sev)
	sinks := m.snapshotLocked()
	m.mu.Unlock()
	deliver(sinks, changes)
}

// Clear replaces the buffer contents with the empty string
func (m *Model) Clear() {
	m.mu.Lock()
	removed := len(m.lines)
	m.lines = nil
	m.open = false
	sinks := m.snapshotLocked()
	m.mu.Unlock()
	deliver(sinks, []ContentChange{{Kind: ChangeClear, Start: 0, Removed: removed}})
}

// SetMaxLines reconfigures the scrollback bound and re-applies trimming
// immediately. A bound of 0 disables trimming.
func (m *Model) SetMaxLines(n int) {
	m.mu.Lock()
	m.maxLines = n
	removed := m.trimLocked()
	sinks := m.snapshotLocked()
	m.mu.Unlock()
	if removed > 0 {
		deliver(sinks, []ContentChange{{Kind: ChangeTrim, Start: 0, Removed: removed}})
	}
}

// MaxLines returns the current scrollback bound
func (m *Model) MaxLines() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxLines
}

// Text returns the full buffer contents
func (m *Model) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	if !m.open {
		sb.WriteByte('\n')
	}
	return sb.String()
}

// LineCount returns the number of retained lines
func (m *Model) LineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// Lines returns a copy of the retained lines
func (m *Model) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

// AddListener registers a change listener and returns its removal token
func (m *Model) AddListener(fn Listener) string {
	token := uuid.New().String()
	m.mu.Lock()
	m.listeners[token] = fn
	m.mu.Unlock()
	return token
}

// RemoveListener removes the listener registered under token
func (m *Model) RemoveListener(token string) {
	m.mu.Lock()
	delete(m.listeners, token)
	m.mu.Unlock()
}

// appendLocked applies text and returns the resulting deltas. Caller holds mu.
func (m *Model) appendLocked(text string, sev Severity) []ContentChange {
	terminated := strings.HasSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	if terminated {
		parts = parts[:len(parts)-1]
	}

	start := len(m.lines)
	idx := 0
	if m.open && len(m.lines) > 0 && len(parts) > 0 {
		start = len(m.lines) - 1
		m.lines[start].Text += parts[0]
		idx = 1
	}
	for ; idx < len(parts); idx++ {
		m.lines = append(m.lines, Line{Text: parts[idx], Severity: sev})
	}
	m.open = !terminated

	changes := []ContentChange{{Kind: ChangeAppend, Start: start, Added: text}}
	if removed := m.trimLocked(); removed > 0 {
		changes = append(changes, ContentChange{Kind: ChangeTrim, Start: 0, Removed: removed})
	}
	return changes
}

// trimLocked enforces the scrollback bound. Growth to maxLines is allowed;
// once exceeded the buffer is cut back to maxLines-1. Caller holds mu.
func (m *Model) trimLocked() int {
	if m.maxLines <= 0 || len(m.lines) <= m.maxLines {
		return 0
	}
	remove := len(m.lines) - (m.maxLines - 1)
	m.lines = append([]Line(nil), m.lines[remove:]...)
	return remove
}

func (m *Model) snapshotLocked() []Listener {
	sinks := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		sinks = append(sinks, fn)
	}
	return sinks
}

func deliver(sinks []Listener, changes []ContentChange) {
	for _, chg := range changes {
		for _, fn := range sinks {
			fn(chg)
		}
	}
}
