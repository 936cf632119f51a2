package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/output"
	outputprovider "github.com/wertwang/theia/internal/providers/output"
	"github.com/wertwang/theia/internal/resource"
	"github.com/wertwang/theia/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *output.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := output.NewManager(nil, 100, logging.NewNop())
	registry := service.NewRegistry()
	require.NoError(t, registry.Register(outputprovider.NewProvider(manager)))
	handlers := NewHandlers(manager, registry, resource.NewResolver(manager))

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.GET("/channels", handlers.ListChannels)
	router.GET("/channels/selected", handlers.SelectedChannel)
	router.POST("/channels/:name/show", handlers.ShowChannel)
	router.POST("/channels/:name/hide", handlers.HideChannel)
	router.DELETE("/channels/:name", handlers.DeleteChannel)
	router.GET("/resource", handlers.ResolveResource)
	router.POST("/services/execute", handlers.ExecuteService)
	router.PUT("/config/max-lines", handlers.UpdateMaxHistory)
	return router, manager
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListChannels(t *testing.T) {
	router, manager := newTestRouter(t)
	manager.GetChannel("build")
	manager.GetChannel("tasks")

	w := doRequest(router, http.MethodGet, "/channels", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Channels []map[string]interface{} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Channels, 2)
}

func TestResolveResourceErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/resource?uri=file:build", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/resource?uri=output:missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveResourceContent(t *testing.T) {
	router, manager := newTestRouter(t)
	manager.GetChannel("build").AppendLine("hello", output.SeverityInfo)

	w := doRequest(router, http.MethodGet, "/resource?uri=output:build", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello\n", resp.Content)
}

func TestShowHideEndpoints(t *testing.T) {
	router, manager := newTestRouter(t)
	manager.GetChannel("build")
	manager.GetChannel("tasks")

	w := doRequest(router, http.MethodPost, "/channels/tasks/show", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tasks", manager.Selected())

	w = doRequest(router, http.MethodPost, "/channels/tasks/hide", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "build", manager.Selected())
}

func TestExecuteServiceEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/services/execute", map[string]interface{}{
		"tool_id": "output.append_line",
		"params":  map[string]interface{}{"name": "build", "text": "from http"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	ch, ok := manager.Lookup("build")
	require.True(t, ok)
	assert.Equal(t, 1, ch.LineCount())
}

func TestUpdateMaxHistoryEndpoint(t *testing.T) {
	router, manager := newTestRouter(t)
	ch := manager.GetChannel("build")
	for i := 0; i < 30; i++ {
		ch.AppendLine("line", output.SeverityInfo)
	}

	w := doRequest(router, http.MethodPut, "/config/max-lines", map[string]interface{}{
		"max_lines": 10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 9, ch.LineCount())
	assert.Equal(t, 10, manager.MaxHistory())
}
