// Package output implements the output channel registry.
//
// A channel is a named, append-only line buffer with visibility and lock
// flags. The Manager owns the channel set, tracks the single selected
// channel, relays structural events (added/deleted/selection-changed), and
// persists lock state across sessions through a LockStore.
//
// Components:
//   - Model: bounded line buffer with change-delta listeners
//   - Channel: named stream with pending/ready model state and queued replay
//   - Manager: channel set, selection invariant, event relay, lock persistence
//   - Emitter: token-based event fan-out
//
// Invariants:
//   - GetChannel is idempotent: one instance per name
//   - The selected channel, when present, exists and is visible
//   - Removing or hiding the selected channel falls selection back to the
//     first remaining visible channel, or none
//   - A buffer never holds more than the configured maximum line count;
//     exceeding it trims the oldest lines down to max-1
//
// Example Usage:
//
//	manager := output.NewManager(store, 1000, logger)
//	_ = manager.Restore()
//	ch := manager.GetChannel("Tasks")
//	ch.AppendLine("build started", output.SeverityInfo)
package output
