package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wertwang/theia/internal/output"
	"github.com/wertwang/theia/internal/resource"
	"github.com/wertwang/theia/internal/service"
	"github.com/wertwang/theia/internal/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	manager  *output.Manager
	registry *service.Registry
	resolver *resource.Resolver
}

// NewHandlers creates a new handler set
func NewHandlers(manager *output.Manager, registry *service.Registry, resolver *resource.Resolver) *Handlers {
	return &Handlers{
		manager:  manager,
		registry: registry,
		resolver: resolver,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Output Channel Service",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	infos := h.manager.Infos()
	visible := 0
	locked := 0
	for _, info := range infos {
		if info.Visible {
			visible++
		}
		if info.Locked {
			locked++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"channels":         len(infos),
		"visible_channels": visible,
		"locked_channels":  locked,
		"selected":         h.manager.Selected(),
		"services":         h.registry.Stats(),
	})
}

// ListChannels returns all channels in insertion order
func (h *Handlers) ListChannels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.manager.Infos()})
}

// SelectedChannel returns the currently selected channel name
func (h *Handlers) SelectedChannel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"selected": h.manager.Selected()})
}

// ShowChannel makes a channel visible and selects it
func (h *Handlers) ShowChannel(c *gin.Context) {
	var req struct {
		PreserveFocus bool `json:"preserve_focus"`
	}
	_ = c.ShouldBindJSON(&req) // body optional
	h.manager.Show(c.Param("name"), req.PreserveFocus)
	c.JSON(http.StatusOK, gin.H{"visible": true})
}

// HideChannel makes a channel invisible
func (h *Handlers) HideChannel(c *gin.Context) {
	h.manager.Hide(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"visible": false})
}

// ToggleLock flips a channel's lock flag
func (h *Handlers) ToggleLock(c *gin.Context) {
	locked := h.manager.ToggleLock(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"locked": locked})
}

// DeleteChannel removes a channel; unknown names are a no-op
func (h *Handlers) DeleteChannel(c *gin.Context) {
	h.manager.DeleteChannel(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ResolveResource reads channel content by resource URI
func (h *Handlers) ResolveResource(c *gin.Context) {
	uri := c.Query("uri")
	res, err := h.resolver.Resolve(uri)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, resource.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	content, err := res.Content(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uri":     res.URI().String(),
		"content": content,
	})
}

// ExecuteService runs a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req struct {
		ToolID string                 `json:"tool_id" binding:"required"`
		Params map[string]interface{} `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, &types.Context{})
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListServices returns all registered services
func (h *Handlers) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.registry.List(nil)})
}

// UpdateMaxHistory applies a new scrollback bound to all channels, live
func (h *Handlers) UpdateMaxHistory(c *gin.Context) {
	var req struct {
		MaxLines int `json:"max_lines" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.manager.SetMaxHistory(req.MaxLines)
	c.JSON(http.StatusOK, gin.H{"max_lines": req.MaxLines})
}
