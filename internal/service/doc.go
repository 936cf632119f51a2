// Package service provides the command registry for the output backend.
//
// Providers expose named tools ("output.append", "output.clear", ...) with
// declared parameter contracts; the registry routes tool IDs to providers.
package service
