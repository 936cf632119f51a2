package output

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wertwang/theia/internal/logging"
	"github.com/wertwang/theia/internal/monitoring"
	"github.com/wertwang/theia/internal/types"
)

// LockStore persists the locked-channel name set across sessions
type LockStore interface {
	LoadLocked() ([]string, error)
	SaveLocked(names []string) error
}

// ModelFactory builds the backing model for a new channel. Returning nil
// marks the model as pending; it must be attached later via AttachModel.
type ModelFactory func(name string, maxLines int) *Model

// Manager owns the set of output channels, the selected-channel reference,
// and the relay of structural events. At most one channel is selected; when
// present it exists in the set and is visible.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]*Channel
	order    []string // insertion order
	selected string   // "" = none
	maxLines int

	factory  ModelFactory
	emitter  *Emitter
	restored map[string]struct{} // locked set loaded at startup
	store    LockStore
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates a channel manager. store may be nil to disable lock
// persistence; maxLines bounds each channel's scrollback.
func NewManager(store LockStore, maxLines int, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		channels: make(map[string]*Channel),
		maxLines: maxLines,
		emitter:  NewEmitter(),
		restored: make(map[string]struct{}),
		store:    store,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithModelFactory overrides how channel models are created
func (m *Manager) WithModelFactory(factory ModelFactory) *Manager {
	m.factory = factory
	return m
}

// Restore loads the persisted locked-channel set. Must run before any
// channel is created so restored channels never appear unlocked.
func (m *Manager) Restore() error {
	if m.store == nil {
		return nil
	}
	names, err := m.store.LoadLocked()
	if err != nil {
		return err
	}
	m.mu.Lock()
	for _, name := range names {
		m.restored[name] = struct{}{}
	}
	m.mu.Unlock()
	m.logger.Info("restored locked channels", zap.Int("count", len(names)))
	return nil
}

// Subscribe registers an event sink and returns its unsubscribe token
func (m *Manager) Subscribe(sink EventSink) string {
	return m.emitter.Subscribe(sink)
}

// Unsubscribe removes a previously registered event sink
func (m *Manager) Unsubscribe(token string) {
	m.emitter.Unsubscribe(token)
}

// GetChannel returns the channel with the given name, creating it if
// needed. Creation always succeeds; if nothing is selected the new channel
// becomes selected.
func (m *Manager) GetChannel(name string) *Channel {
	m.mu.Lock()
	if ch, ok := m.channels[name]; ok {
		m.mu.Unlock()
		return ch
	}

	ch := newChannel(name)
	if _, locked := m.restored[name]; locked {
		ch.setLocked(true)
	}
	m.channels[name] = ch
	m.order = append(m.order, name)
	selected := m.selected == ""
	if selected {
		m.selected = name
	}
	maxLines := m.maxLines
	factory := m.factory
	m.mu.Unlock()

	if factory != nil {
		ch.AttachModel(factory(name, maxLines))
	} else {
		ch.AttachModel(NewModel(maxLines))
	}

	// Relay content deltas as registry events. Registration is queued if
	// the model is still pending, so no mutation is ever missed.
	ch.AddContentListener(func(chg ContentChange) {
		if m.metrics != nil {
			switch chg.Kind {
			case ChangeAppend:
				m.metrics.LinesAppended.Add(float64(strings.Count(chg.Added, "\n")))
			case ChangeTrim:
				m.metrics.LinesTrimmed.Add(float64(chg.Removed))
			}
		}
		m.emitter.Emit(Event{Kind: EventContentChanged, Channel: name, Change: &chg})
	})

	if m.metrics != nil {
		m.metrics.ChannelsCreated.Inc()
		m.metrics.ChannelsActive.Inc()
	}
	m.logger.Debug("channel created", zap.String("channel", name))
	m.emitter.Emit(Event{Kind: EventChannelAdded, Channel: name})
	if selected {
		m.emitSelection(name)
	}
	return ch
}

// Lookup returns an existing channel without creating one
func (m *Manager) Lookup(name string) (*Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ch, ok := m.channels[name]
	return ch, ok
}

// DeleteChannel removes a channel and its listeners. Unknown names are a
// logged no-op. If the deleted channel was selected, selection falls back
// to the first remaining visible channel or to none.
func (m *Manager) DeleteChannel(name string) {
	m.mu.Lock()
	ch, ok := m.channels[name]
	if !ok {
		m.mu.Unlock()
		m.logger.Warn("delete of unknown channel", zap.String("channel", name))
		return
	}
	delete(m.channels, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	selectionMoved := m.selected == name
	newSelected := m.selected
	if selectionMoved {
		newSelected = m.firstVisibleLocked()
		m.selected = newSelected
	}
	m.mu.Unlock()

	ch.dispose()
	if m.metrics != nil {
		m.metrics.ChannelsDeleted.Inc()
		m.metrics.ChannelsActive.Dec()
	}
	m.logger.Debug("channel deleted", zap.String("channel", name))
	m.emitter.Emit(Event{Kind: EventChannelDeleted, Channel: name})
	if selectionMoved {
		m.emitSelection(newSelected)
	}
}

// Show makes a channel visible and selects it, creating it if needed.
// preserveFocus is forwarded to presentation clients untouched.
func (m *Manager) Show(name string, preserveFocus bool) *Channel {
	ch := m.GetChannel(name)

	m.mu.Lock()
	wasVisible := ch.Visible()
	ch.setVisible(true)
	selectionMoved := m.selected != name
	if selectionMoved {
		m.selected = name
	}
	m.mu.Unlock()

	if !wasVisible {
		m.emitter.Emit(Event{
			Kind:          EventVisibilityChanged,
			Channel:       name,
			Visible:       true,
			PreserveFocus: preserveFocus,
		})
	}
	if selectionMoved {
		m.emitSelection(name)
	}
	return ch
}

// Hide makes a channel invisible. Hiding the selected channel moves
// selection to the first remaining visible channel, firing exactly one
// selection-changed notification.
func (m *Manager) Hide(name string) {
	m.mu.Lock()
	ch, ok := m.channels[name]
	if !ok {
		m.mu.Unlock()
		m.logger.Warn("hide of unknown channel", zap.String("channel", name))
		return
	}
	wasVisible := ch.Visible()
	ch.setVisible(false)
	selectionMoved := m.selected == name
	newSelected := m.selected
	if selectionMoved {
		newSelected = m.firstVisibleLocked()
		m.selected = newSelected
	}
	m.mu.Unlock()

	if wasVisible {
		m.emitter.Emit(Event{Kind: EventVisibilityChanged, Channel: name, Visible: false})
	}
	if selectionMoved {
		m.emitSelection(newSelected)
	}
}

// ToggleLock flips a channel's lock flag, creating the channel if needed
func (m *Manager) ToggleLock(name string) bool {
	ch := m.GetChannel(name)
	locked := ch.ToggleLocked()
	m.emitter.Emit(Event{Kind: EventLockChanged, Channel: name, Locked: locked})
	return locked
}

// Selected returns the selected channel name, or "" when none
func (m *Manager) Selected() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// Channels returns all channels in insertion order
func (m *Manager) Channels() []*Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Channel, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.channels[name])
	}
	return out
}

// VisibleChannels returns visible channels in insertion order
func (m *Manager) VisibleChannels() []*Channel {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Channel
	for _, name := range m.order {
		if ch := m.channels[name]; ch.Visible() {
			out = append(out, ch)
		}
	}
	return out
}

// Infos returns wire snapshots of all channels in insertion order
func (m *Manager) Infos() []types.ChannelInfo {
	m.mu.RLock()
	selected := m.selected
	names := append([]string(nil), m.order...)
	channels := make([]*Channel, 0, len(names))
	for _, name := range names {
		channels = append(channels, m.channels[name])
	}
	m.mu.RUnlock()

	infos := make([]types.ChannelInfo, 0, len(channels))
	for _, ch := range channels {
		infos = append(infos, types.ChannelInfo{
			Name:     ch.Name(),
			Visible:  ch.Visible(),
			Locked:   ch.Locked(),
			Lines:    ch.LineCount(),
			Selected: ch.Name() == selected,
		})
	}
	return infos
}

// SetMaxHistory applies a new scrollback bound to every channel, live
func (m *Manager) SetMaxHistory(n int) {
	m.mu.Lock()
	m.maxLines = n
	channels := make([]*Channel, 0, len(m.order))
	for _, name := range m.order {
		channels = append(channels, m.channels[name])
	}
	m.mu.Unlock()

	for _, ch := range channels {
		ch.SetMaxLines(n)
	}
	m.logger.Info("max channel history updated", zap.Int("max_lines", n))
}

// MaxHistory returns the current scrollback bound
func (m *Manager) MaxHistory() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxLines
}

// Shutdown persists the lock flags of live channels. The saved set reflects
// runtime toggles, not the set restored at startup.
func (m *Manager) Shutdown() error {
	if m.store == nil {
		return nil
	}
	var locked []string
	for _, ch := range m.Channels() {
		if ch.Locked() {
			locked = append(locked, ch.Name())
		}
	}
	if err := m.store.SaveLocked(locked); err != nil {
		return err
	}
	m.logger.Info("persisted locked channels", zap.Int("count", len(locked)))
	return nil
}

// firstVisibleLocked returns the first visible channel name in insertion
// order, or "". Caller holds mu.
func (m *Manager) firstVisibleLocked() string {
	for _, name := range m.order {
		if ch := m.channels[name]; ch.Visible() {
			return name
		}
	}
	return ""
}

func (m *Manager) emitSelection(name string) {
	if m.metrics != nil {
		m.metrics.SelectionChanges.Inc()
	}
	m.emitter.Emit(Event{Kind: EventSelectionChanged, Channel: name})
}
