// Package server composes the output service: configuration, state store,
// channel manager, service providers and the HTTP/WebSocket transport,
// wired through explicit constructors.
package server
