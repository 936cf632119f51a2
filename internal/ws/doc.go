// Package ws streams output channel events to UI clients over WebSocket.
//
// Each connection subscribes to the channel manager's event emitter; the
// subscription token is released when the client disconnects. Clients may
// also send show/hide/toggle_lock messages for the channel they present.
package ws
