package ws

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/monitoring"
	"github.com/wertwang/theia/internal/output"
	"github.com/wertwang/theia/internal/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Handler relays registry and content events to WebSocket clients
type Handler struct {
	manager *output.Manager
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *output.Manager, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleConnection upgrades the request and streams output events until the
// client disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Event sinks fire from mutating goroutines; serialize writes per conn
	writeLock := &sync.Mutex{}
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}

	token := h.manager.Subscribe(func(ev output.Event) {
		if h.metrics != nil {
			h.metrics.WSEvents.WithLabelValues(string(ev.Kind)).Inc()
		}
		h.sendEvent(conn, writeLock, ev)
	})

	defer func() {
		h.manager.Unsubscribe(token)
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
		conn.Close()
	}()

	h.send(conn, writeLock, map[string]interface{}{
		"type":     "system",
		"message":  "connected to output service",
		"selected": h.manager.Selected(),
	})

	for {
		var msg types.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Debug("websocket read closed", zap.Error(err))
			return
		}

		switch msg.Type {
		case "ping":
			h.send(conn, writeLock, map[string]interface{}{"type": "pong"})
		case "show":
			if msg.Channel != "" {
				preserveFocus, _ := msg.Payload["preserve_focus"].(bool)
				h.manager.Show(msg.Channel, preserveFocus)
			}
		case "hide":
			if msg.Channel != "" {
				h.manager.Hide(msg.Channel)
			}
		case "toggle_lock":
			if msg.Channel != "" {
				h.manager.ToggleLock(msg.Channel)
			}
		default:
			h.send(conn, writeLock, map[string]interface{}{
				"type":  "error",
				"error": "unknown message type",
			})
		}
	}
}

func (h *Handler) sendEvent(conn *websocket.Conn, writeLock *sync.Mutex, ev output.Event) {
	h.send(conn, writeLock, map[string]interface{}{
		"type":  "event",
		"event": ev,
	})
}

func (h *Handler) send(conn *websocket.Conn, writeLock *sync.Mutex, payload map[string]interface{}) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode event", zap.Error(err))
		return
	}
	writeLock.Lock()
	defer writeLock.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
	}
}
