package output

import (
	"fmt"
	"testing"
)

func TestAppendMergesOpenLine(t *testing.T) {
	m := NewModel(0)

	m.Append("a", SeverityInfo)
	m.Append("b\nc", SeverityInfo)

	if got := m.Text(); got != "ab\nc" {
		t.Errorf("Expected text 'ab\\nc', got %q", got)
	}
	if m.LineCount() != 2 {
		t.Errorf("Expected 2 lines, got %d", m.LineCount())
	}
}

func TestAppendLineClosesOpenLine(t *testing.T) {
	m := NewModel(0)

	m.Append("partial", SeverityInfo)
	m.AppendLine("full", SeverityInfo)

	if got := m.Text(); got != "partial\nfull\n" {
		t.Errorf("Expected text 'partial\\nfull\\n', got %q", got)
	}

	lines := m.Lines()
	if len(lines) != 2 || lines[0].Text != "partial" || lines[1].Text != "full" {
		t.Errorf("Unexpected lines: %v", lines)
	}
}

func TestAppendLineOnEmptyBuffer(t *testing.T) {
	m := NewModel(0)

	m.AppendLine("only", SeverityError)

	if got := m.Text(); got != "only\n" {
		t.Errorf("Expected text 'only\\n', got %q", got)
	}
	if m.Lines()[0].Severity != SeverityError {
		t.Error("Expected severity to be retained")
	}
}

func TestClear(t *testing.T) {
	m := NewModel(0)
	m.AppendLine("one", SeverityInfo)
	m.AppendLine("two", SeverityInfo)

	m.Clear()

	if m.Text() != "" {
		t.Errorf("Expected empty text after clear, got %q", m.Text())
	}
	if m.LineCount() != 0 {
		t.Errorf("Expected 0 lines after clear, got %d", m.LineCount())
	}
}

// Appending N lines past the bound retains exactly max-1 most-recent lines:
// max=20, 25 appends leave lines 7-25.
func TestScrollbackTrimming(t *testing.T) {
	m := NewModel(20)

	for i := 1; i <= 25; i++ {
		m.AppendLine(fmt.Sprintf("line %d", i), SeverityInfo)
	}

	lines := m.Lines()
	if len(lines) != 19 {
		t.Fatalf("Expected 19 lines, got %d", len(lines))
	}
	if lines[0].Text != "line 7" {
		t.Errorf("Expected first retained line 'line 7', got %q", lines[0].Text)
	}
	if lines[18].Text != "line 25" {
		t.Errorf("Expected last line 'line 25', got %q", lines[18].Text)
	}
}

func TestGrowthToMaxAllowed(t *testing.T) {
	m := NewModel(20)

	for i := 1; i <= 20; i++ {
		m.AppendLine(fmt.Sprintf("line %d", i), SeverityInfo)
	}

	// At exactly max no trimming happens yet
	if m.LineCount() != 20 {
		t.Errorf("Expected 20 lines at the bound, got %d", m.LineCount())
	}
}

func TestSetMaxLinesRetrimsImmediately(t *testing.T) {
	m := NewModel(0)
	for i := 1; i <= 50; i++ {
		m.AppendLine(fmt.Sprintf("line %d", i), SeverityInfo)
	}

	m.SetMaxLines(10)

	if m.LineCount() != 9 {
		t.Errorf("Expected 9 lines after live reconfiguration, got %d", m.LineCount())
	}
	if m.Lines()[0].Text != "line 42" {
		t.Errorf("Expected first retained line 'line 42', got %q", m.Lines()[0].Text)
	}
}

func TestListenersReceiveDeltas(t *testing.T) {
	m := NewModel(3)

	var changes []ContentChange
	token := m.AddListener(func(chg ContentChange) {
		changes = append(changes, chg)
	})

	m.AppendLine("one", SeverityInfo)
	if len(changes) != 1 || changes[0].Kind != ChangeAppend || changes[0].Added != "one\n" {
		t.Fatalf("Unexpected changes after append: %v", changes)
	}

	m.AppendLine("two", SeverityInfo)
	m.AppendLine("three", SeverityInfo)
	m.AppendLine("four", SeverityInfo) // crosses the bound, trims to 2

	last := changes[len(changes)-1]
	if last.Kind != ChangeTrim || last.Removed != 2 {
		t.Errorf("Expected trailing trim delta removing 2, got %+v", last)
	}

	m.RemoveListener(token)
	before := len(changes)
	m.AppendLine("five", SeverityInfo)
	if len(changes) != before {
		t.Error("Listener fired after removal")
	}
}
