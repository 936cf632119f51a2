package types

// ChannelInfo is the wire representation of an output channel
type ChannelInfo struct {
	Name     string `json:"name"`
	Visible  bool   `json:"visible"`
	Locked   bool   `json:"locked"`
	Lines    int    `json:"lines"`
	Selected bool   `json:"selected"`
}

// WSMessage represents a WebSocket message from a client
type WSMessage struct {
	Type    string                 `json:"type"`
	Channel string                 `json:"channel,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
