package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/output"
)

type wsFrame struct {
	Type  string        `json:"type"`
	Event *output.Event `json:"event,omitempty"`
}

func dialTestHandler(t *testing.T) (*websocket.Conn, *output.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := output.NewManager(nil, 100, logging.NewNop())
	handler := NewHandler(manager, logging.NewNop(), nil)

	router := gin.New()
	router.GET("/stream", handler.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, manager
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame wsFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func TestWelcomeMessage(t *testing.T) {
	conn, _ := dialTestHandler(t)

	frame := readFrame(t, conn)
	assert.Equal(t, "system", frame.Type)
}

func TestChannelEventsStreamed(t *testing.T) {
	conn, manager := dialTestHandler(t)
	readFrame(t, conn) // welcome

	manager.GetChannel("build")

	frame := readFrame(t, conn)
	require.Equal(t, "event", frame.Type)
	require.NotNil(t, frame.Event)
	assert.Equal(t, output.EventChannelAdded, frame.Event.Kind)
	assert.Equal(t, "build", frame.Event.Channel)

	// First channel also becomes selected
	frame = readFrame(t, conn)
	require.NotNil(t, frame.Event)
	assert.Equal(t, output.EventSelectionChanged, frame.Event.Kind)
}

func TestPingPong(t *testing.T) {
	conn, _ := dialTestHandler(t)
	readFrame(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	frame := readFrame(t, conn)
	assert.Equal(t, "pong", frame.Type)
}
