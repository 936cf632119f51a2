package output

import (
	"context"
	"fmt"

	"github.com/wertwang/theia/internal/output"
	"github.com/wertwang/theia/internal/types"
)

// Provider exposes output channel operations as service tools
type Provider struct {
	manager *output.Manager
}

// NewProvider creates an output provider over the given channel manager
func NewProvider(manager *output.Manager) *Provider {
	return &Provider{manager: manager}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "output",
		Name:        "Output Service",
		Description: "Named output channel management",
		Category:    types.CategoryOutput,
		Capabilities: []string{
			"append",
			"append_line",
			"clear",
			"show",
			"hide",
			"dispose",
			"toggle_lock",
			"list",
		},
		Tools: []types.Tool{
			{
				ID:          "output.append",
				Name:        "Append",
				Description: "Append text to a channel, creating it if needed",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
					{Name: "text", Type: "string", Description: "Text to append", Required: true},
					{Name: "severity", Type: "string", Description: "info, warning or error", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.append_line",
				Name:        "Append Line",
				Description: "Append a complete line to a channel",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
					{Name: "text", Type: "string", Description: "Line to append", Required: true},
					{Name: "severity", Type: "string", Description: "info, warning or error", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.clear",
				Name:        "Clear",
				Description: "Replace a channel's contents with the empty string",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.show",
				Name:        "Show",
				Description: "Make a channel visible and select it",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
					{Name: "preserve_focus", Type: "boolean", Description: "Do not steal focus", Required: false},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.hide",
				Name:        "Hide",
				Description: "Make a channel invisible",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.dispose",
				Name:        "Dispose",
				Description: "Delete a channel and its listeners",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.toggle_lock",
				Name:        "Toggle Lock",
				Description: "Flip a channel's auto-scroll lock",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Channel name", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "output.list",
				Name:        "List Channels",
				Description: "List all channels with their flags",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "output.selected",
				Name:        "Selected Channel",
				Description: "Get the currently selected channel name",
				Parameters:  []types.Parameter{},
				Returns:     "string",
			},
		},
	}
}

// Execute runs an output operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "output.append":
		return p.append(params, false)
	case "output.append_line":
		return p.append(params, true)
	case "output.clear":
		return p.clear(params)
	case "output.show":
		return p.show(params)
	case "output.hide":
		return p.hide(params)
	case "output.dispose":
		return p.dispose(params)
	case "output.toggle_lock":
		return p.toggleLock(params)
	case "output.list":
		return p.list()
	case "output.selected":
		return p.selected()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) append(params map[string]interface{}, line bool) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	text, err := requireString(params, "text")
	if err != nil {
		return failure(err.Error())
	}
	sev := severityParam(params)

	ch := p.manager.GetChannel(name)
	if line {
		ch.AppendLine(text, sev)
	} else {
		ch.Append(text, sev)
	}
	return success(map[string]interface{}{"appended": true})
}

func (p *Provider) clear(params map[string]interface{}) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	p.manager.GetChannel(name).Clear()
	return success(map[string]interface{}{"cleared": true})
}

func (p *Provider) show(params map[string]interface{}) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	preserveFocus, _ := params["preserve_focus"].(bool)
	p.manager.Show(name, preserveFocus)
	return success(map[string]interface{}{"visible": true})
}

func (p *Provider) hide(params map[string]interface{}) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	p.manager.Hide(name)
	return success(map[string]interface{}{"visible": false})
}

func (p *Provider) dispose(params map[string]interface{}) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	// Unknown names are a logged no-op inside the manager
	p.manager.DeleteChannel(name)
	return success(map[string]interface{}{"disposed": true})
}

func (p *Provider) toggleLock(params map[string]interface{}) (*types.Result, error) {
	name, err := requireString(params, "name")
	if err != nil {
		return failure(err.Error())
	}
	locked := p.manager.ToggleLock(name)
	return success(map[string]interface{}{"locked": locked})
}

func (p *Provider) list() (*types.Result, error) {
	infos := p.manager.Infos()
	channels := make([]interface{}, 0, len(infos))
	for _, info := range infos {
		channels = append(channels, map[string]interface{}{
			"name":     info.Name,
			"visible":  info.Visible,
			"locked":   info.Locked,
			"lines":    info.Lines,
			"selected": info.Selected,
		})
	}
	return success(map[string]interface{}{"channels": channels})
}

func (p *Provider) selected() (*types.Result, error) {
	return success(map[string]interface{}{"selected": p.manager.Selected()})
}

func requireString(params map[string]interface{}, key string) (string, error) {
	val, ok := params[key].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("%s parameter required", key)
	}
	return val, nil
}

func severityParam(params map[string]interface{}) output.Severity {
	switch params["severity"] {
	case "warning":
		return output.SeverityWarning
	case "error":
		return output.SeverityError
	default:
		return output.SeverityInfo
	}
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
