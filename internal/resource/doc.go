// Package resource bridges output channels to a generic URI-addressed,
// read-only content contract.
//
// Channel resources use the output:<channel-name> scheme; output:/empty is
// a reserved sentinel resolving to an always-empty placeholder buffer.
package resource
