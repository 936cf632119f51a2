package output

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/output"
)

func newTestProvider() (*Provider, *output.Manager) {
	manager := output.NewManager(nil, 100, logging.NewNop())
	return NewProvider(manager), manager
}

func execute(t *testing.T, p *Provider, toolID string, params map[string]interface{}) {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.True(t, result.Success, "tool %s failed: %v", toolID, result.Error)
}

func TestDefinitionTools(t *testing.T) {
	p, _ := newTestProvider()

	def := p.Definition()
	assert.Equal(t, "output", def.ID)

	toolIDs := make(map[string]bool)
	for _, tool := range def.Tools {
		toolIDs[tool.ID] = true
		assert.NotEmpty(t, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}
	assert.True(t, toolIDs["output.append"])
	assert.True(t, toolIDs["output.append_line"])
	assert.True(t, toolIDs["output.clear"])
	assert.True(t, toolIDs["output.show"])
	assert.True(t, toolIDs["output.hide"])
	assert.True(t, toolIDs["output.dispose"])
	assert.True(t, toolIDs["output.toggle_lock"])
}

func TestAppendCreatesChannel(t *testing.T) {
	p, manager := newTestProvider()

	execute(t, p, "output.append_line", map[string]interface{}{
		"name": "build",
		"text": "compiling",
	})

	ch, ok := manager.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, 1, ch.LineCount())
}

func TestAppendSeverity(t *testing.T) {
	p, manager := newTestProvider()

	execute(t, p, "output.append_line", map[string]interface{}{
		"name":     "build",
		"text":     "boom",
		"severity": "error",
	})

	ch, _ := manager.Lookup("build")
	ctx := context.Background()
	text, err := ch.ReadText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "boom\n", text)
}

func TestClearTool(t *testing.T) {
	p, manager := newTestProvider()
	manager.GetChannel("build").AppendLine("stale", output.SeverityInfo)

	execute(t, p, "output.clear", map[string]interface{}{"name": "build"})

	ch, _ := manager.Lookup("build")
	assert.Equal(t, 0, ch.LineCount())
}

func TestShowHideTools(t *testing.T) {
	p, manager := newTestProvider()
	manager.GetChannel("build")
	manager.GetChannel("tasks")

	execute(t, p, "output.show", map[string]interface{}{"name": "tasks"})
	assert.Equal(t, "tasks", manager.Selected())

	execute(t, p, "output.hide", map[string]interface{}{"name": "tasks"})
	assert.Equal(t, "build", manager.Selected())
}

func TestToggleLockTool(t *testing.T) {
	p, _ := newTestProvider()

	result, err := p.Execute(context.Background(), "output.toggle_lock", map[string]interface{}{
		"name": "build",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, result.Data["locked"])
}

func TestDisposeUnknownChannelSucceeds(t *testing.T) {
	p, _ := newTestProvider()

	// Unknown names are a warned no-op, not a failure
	execute(t, p, "output.dispose", map[string]interface{}{"name": "missing"})
}

func TestListTool(t *testing.T) {
	p, manager := newTestProvider()
	manager.GetChannel("build")
	manager.GetChannel("tasks")

	result, err := p.Execute(context.Background(), "output.list", nil, nil)
	require.NoError(t, err)
	channels := result.Data["channels"].([]interface{})
	assert.Len(t, channels, 2)
}

func TestMissingNameFails(t *testing.T) {
	p, _ := newTestProvider()

	result, err := p.Execute(context.Background(), "output.append", map[string]interface{}{
		"text": "orphan",
	}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestUnknownTool(t *testing.T) {
	p, _ := newTestProvider()

	result, err := p.Execute(context.Background(), "output.frobnicate", nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}
