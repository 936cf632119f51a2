// Package state persists output panel state across sessions.
//
// The store holds the locked-channel name set, loaded at startup before
// any channel listener registration and saved at shutdown from the live
// lock flags.
package state
