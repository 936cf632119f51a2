// Package http provides the REST surface of the output service: channel
// listing and lifecycle, resource resolution by output: URI, service tool
// execution, and live configuration of the scrollback bound.
package http
