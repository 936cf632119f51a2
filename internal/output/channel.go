package output

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrChannelDisposed is returned for reads against a disposed channel
var ErrChannelDisposed = errors.New("output channel disposed")

// Channel is a named append-only output stream. Its backing model may be
// created asynchronously: operations issued before the model is ready are
// queued in order and replayed when AttachModel is called, never dropped.
type Channel struct {
	mu        sync.Mutex
	name      string
	visible   bool
	locked    bool
	model     *Model
	pending   []func(*Model)    // queued while model is nil
	listeners map[string]string // channel token -> model token
	disposed  bool
	done      chan struct{} // closed on dispose
}

func newChannel(name string) *Channel {
	return &Channel{
		name:      name,
		visible:   true,
		listeners: make(map[string]string),
		done:      make(chan struct{}),
	}
}

// Name returns the channel's unique name
func (c *Channel) Name() string {
	return c.name
}

// Visible reports whether the channel is currently shown
func (c *Channel) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

func (c *Channel) setVisible(v bool) {
	c.mu.Lock()
	c.visible = v
	c.mu.Unlock()
}

// Locked reports whether auto-scroll is suppressed for this channel
func (c *Channel) Locked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked
}

// ToggleLocked flips the lock flag and returns the new value
func (c *Channel) ToggleLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = !c.locked
	return c.locked
}

func (c *Channel) setLocked(v bool) {
	c.mu.Lock()
	c.locked = v
	c.mu.Unlock()
}

// Ready reports whether the backing model has resolved
func (c *Channel) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model != nil
}

// AttachModel resolves the channel's backing model and replays queued
// operations in issue order. Attaching to a disposed channel discards the
// model; queued work was already dropped at dispose time.
func (c *Channel) AttachModel(m *Model) {
	if m == nil {
		return
	}
	c.mu.Lock()
	if c.disposed || c.model != nil {
		c.mu.Unlock()
		return
	}
	c.model = m
	ops := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, op := range ops {
		op(m)
	}
}

// do runs op against the model now, or queues it until the model resolves
func (c *Channel) do(op func(*Model)) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if c.model == nil {
		c.pending = append(c.pending, op)
		c.mu.Unlock()
		return
	}
	m := c.model
	c.mu.Unlock()
	op(m)
}

// Append inserts text at the end of the channel's buffer
func (c *Channel) Append(text string, sev Severity) {
	c.do(func(m *Model) { m.Append(text, sev) })
}

// AppendLine appends text as a complete line
func (c *Channel) AppendLine(line string, sev Severity) {
	c.do(func(m *Model) { m.AppendLine(line, sev) })
}

// Clear empties the channel's buffer
func (c *Channel) Clear() {
	c.do(func(m *Model) { m.Clear() })
}

// SetMaxLines applies a new scrollback bound to the backing model
func (c *Channel) SetMaxLines(n int) {
	c.do(func(m *Model) { m.SetMaxLines(n) })
}

// LineCount returns the retained line count, or 0 while the model is pending
func (c *Channel) LineCount() int {
	c.mu.Lock()
	m := c.model
	c.mu.Unlock()
	if m == nil {
		return 0
	}
	return m.LineCount()
}

// ReadText returns the channel's full content. While the model is pending
// the read is deferred until it resolves; ctx bounds the wait.
func (c *Channel) ReadText(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return "", ErrChannelDisposed
	}
	if c.model != nil {
		m := c.model
		c.mu.Unlock()
		return m.Text(), nil
	}
	ready := make(chan string, 1)
	c.pending = append(c.pending, func(m *Model) { ready <- m.Text() })
	c.mu.Unlock()

	select {
	case text := <-ready:
		return text, nil
	case <-c.done:
		return "", ErrChannelDisposed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// AddContentListener registers a change listener, deferring registration
// while the model is pending. The returned token removes it.
func (c *Channel) AddContentListener(fn Listener) string {
	token := uuid.New().String()
	c.do(func(m *Model) {
		modelToken := m.AddListener(fn)
		c.mu.Lock()
		if c.disposed {
			c.mu.Unlock()
			m.RemoveListener(modelToken)
			return
		}
		c.listeners[token] = modelToken
		c.mu.Unlock()
	})
	return token
}

// RemoveContentListener removes the listener registered under token
func (c *Channel) RemoveContentListener(token string) {
	c.do(func(m *Model) {
		c.mu.Lock()
		modelToken, ok := c.listeners[token]
		delete(c.listeners, token)
		c.mu.Unlock()
		if ok {
			m.RemoveListener(modelToken)
		}
	})
}

// dispose detaches all listeners and drops queued work. Safe to call while
// the model is still pending; a later AttachModel becomes a no-op.
func (c *Channel) dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	m := c.model
	tokens := make([]string, 0, len(c.listeners))
	for _, modelToken := range c.listeners {
		tokens = append(tokens, modelToken)
	}
	c.listeners = nil
	c.pending = nil
	close(c.done)
	c.mu.Unlock()

	if m != nil {
		for _, token := range tokens {
			m.RemoveListener(token)
		}
	}
}
