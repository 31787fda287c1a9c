// Package realtime keeps the client's live-update channels open. The
// Monitor tracks connectivity, replays an exponential backoff when the
// channel drops, and fans connection transitions out to observers (the
// sync engine being the main one, via SetOnline).
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/clock"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

const (
	// DefaultBaseDelay is the first reconnect delay; each further
	// attempt doubles it.
	DefaultBaseDelay = time.Second

	// DefaultMaxAttempts bounds consecutive reconnect attempts before
	// the monitor gives up.
	DefaultMaxAttempts = 5
)

// Config tunes the reconnect behavior. Zero values fall back to the
// defaults.
type Config struct {
	BaseDelay   time.Duration
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.BaseDelay <= 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	return c
}

// Observer receives connection state snapshots. Observers are called
// synchronously in registration order; a panicking observer is recovered
// and does not affect the others.
type Observer func(state models.ConnectionState)

type subscription struct {
	cfg    SubscriptionConfig
	handle Subscription
}

type observerEntry struct {
	id int
	fn Observer
}

// Monitor is the reconnect state machine. All transitions happen under
// one mutex; channel client calls and observer callbacks run outside it.
type Monitor struct {
	client  ChannelClient
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config
	backoff *backoff.ExponentialBackOff

	mu        sync.Mutex
	state     State
	snapshot  models.ConnectionState
	subs      map[string]*subscription
	observers []observerEntry
	nextObsID int
	timer     clock.Timer
	attempts  int
	disposed  bool
}

// New creates a monitor around the given channel client. Clock and
// Logger default to the system implementations when nil.
func New(client ChannelClient, clk clock.Clock, logger *slog.Logger, cfg Config) *Monitor {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.BaseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = cfg.BaseDelay << (cfg.MaxAttempts - 1)

	return &Monitor{
		client:  client,
		clock:   clk,
		logger:  logger,
		cfg:     cfg,
		backoff: bo,
		subs:    make(map[string]*subscription),
	}
}

// State returns the current machine state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns a copy of the connection state.
func (m *Monitor) Snapshot() models.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Subscribe opens a live channel and remembers its config so it can be
// recreated after a drop. A failed open is not an error for the caller:
// the config is retained and the reconnect machinery takes over.
func (m *Monitor) Subscribe(ctx context.Context, cfg SubscriptionConfig) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return fmt.Errorf("monitor is closed")
	}
	if m.state == StateDisconnected {
		m.state = StateConnecting
	}
	sub := &subscription{cfg: cfg}
	m.subs[cfg.Channel] = sub
	m.mu.Unlock()

	handle, err := m.client.Subscribe(ctx, cfg, m.statusFunc(cfg.Channel))
	if err != nil {
		m.logger.Warn("subscribe failed, reconnect will retry",
			"channel", cfg.Channel,
			"error", err,
		)
		m.handleDrop()
		return nil
	}

	m.mu.Lock()
	sub.handle = handle
	m.mu.Unlock()

	m.markConnected()
	return nil
}

// Unsubscribe closes a channel and forgets its config.
func (m *Monitor) Unsubscribe(channel string) {
	m.mu.Lock()
	var handle Subscription
	if sub, ok := m.subs[channel]; ok {
		handle = sub.handle
		sub.handle = nil
	}
	delete(m.subs, channel)
	m.mu.Unlock()

	if handle != nil {
		if err := handle.Close(); err != nil {
			m.logger.Warn("failed to close subscription", "channel", channel, "error", err)
		}
	}
}

// ForceReconnect resets the attempt budget and runs a reconnect attempt
// immediately, regardless of the current state. It is the only way out
// of the gave-up state.
func (m *Monitor) ForceReconnect() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.attempts = 0
	m.backoff.Reset()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	m.attemptReconnect()
}

// OnConnectionChange registers an observer and fires it immediately with
// the current snapshot. The returned func unsubscribes it.
func (m *Monitor) OnConnectionChange(fn Observer) func() {
	m.mu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	snapshot := m.snapshot
	m.mu.Unlock()

	m.callObserver(fn, snapshot)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, entry := range m.observers {
			if entry.id == id {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// Close tears the monitor down: pending timers are stopped, handles are
// closed and no further transitions happen.
func (m *Monitor) Close() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	handles := make([]Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		if sub.handle != nil {
			handles = append(handles, sub.handle)
			sub.handle = nil
		}
	}
	m.mu.Unlock()

	for _, handle := range handles {
		if err := handle.Close(); err != nil {
			m.logger.Warn("failed to close subscription", "error", err)
		}
	}
}

// statusFunc builds the per-channel callback handed to the client.
func (m *Monitor) statusFunc(channel string) StatusFunc {
	return func(status ChannelStatus) {
		switch status {
		case ChannelConnected:
			m.markConnected()
		case ChannelDisconnected, ChannelError:
			m.logger.Info("channel dropped", "channel", channel, "status", string(status))
			m.handleDrop()
		}
	}
}

func (m *Monitor) markConnected() {
	m.mu.Lock()
	if m.disposed || m.state == StateConnected {
		m.mu.Unlock()
		return
	}
	m.state = StateConnected
	m.attempts = 0
	m.backoff.Reset()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.snapshot.IsConnected = true
	m.snapshot.IsReconnecting = false
	m.snapshot.LastConnected = m.clock.Now()
	m.snapshot.ConnectionCount++
	count := m.snapshot.ConnectionCount
	m.notifyLocked()
	m.mu.Unlock()

	m.logger.Info("connected", "connection_count", count)
}

// handleDrop moves the machine into reconnecting and arms the backoff
// timer. Repeated drop reports while a timer is pending are ignored.
// With no subscriptions left there is nothing to recreate; the machine
// settles in disconnected instead of arming a timer.
func (m *Monitor) handleDrop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed || m.state == StateGaveUp {
		return
	}

	wasConnected := m.snapshot.IsConnected
	if wasConnected {
		m.snapshot.IsConnected = false
		m.snapshot.LastDisconnected = m.clock.Now()
	}

	if len(m.subs) == 0 {
		m.state = StateDisconnected
		m.snapshot.IsReconnecting = false
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
		if wasConnected {
			m.notifyLocked()
		}
		return
	}

	m.scheduleReconnectLocked()
}

// scheduleReconnectLocked arms the next reconnect timer. There is at
// most one outstanding timer; attempts beyond the budget move the
// machine to gave-up instead. Caller holds m.mu.
func (m *Monitor) scheduleReconnectLocked() {
	if m.timer != nil {
		return
	}

	if m.attempts >= m.cfg.MaxAttempts {
		m.state = StateGaveUp
		m.snapshot.IsReconnecting = false
		m.notifyLocked()
		m.logger.Warn("reconnect budget exhausted", "attempts", m.attempts)
		return
	}

	delay := m.backoff.NextBackOff()
	m.attempts++

	changed := m.state != StateReconnecting
	m.state = StateReconnecting
	m.snapshot.IsReconnecting = true
	if changed {
		m.notifyLocked()
	}

	m.logger.Info("reconnect scheduled",
		"attempt", m.attempts,
		"delay", delay,
	)

	m.timer = m.clock.AfterFunc(delay, m.attemptReconnect)
}

// attemptReconnect closes stale handles and recreates every stored
// subscription. A per-channel failure does not abort the batch; any
// failure schedules the next attempt.
func (m *Monitor) attemptReconnect() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.state = StateConnecting
	subs := make([]*subscription, 0, len(m.subs))
	stale := make([]Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub)
		if sub.handle != nil {
			stale = append(stale, sub.handle)
			sub.handle = nil
		}
	}
	m.mu.Unlock()

	for _, handle := range stale {
		if err := handle.Close(); err != nil {
			m.logger.Debug("failed to close stale handle", "error", err)
		}
	}

	allOK := true
	for _, sub := range subs {
		handle, err := m.client.Subscribe(context.Background(), sub.cfg, m.statusFunc(sub.cfg.Channel))
		if err != nil {
			m.logger.Warn("reconnect attempt failed",
				"channel", sub.cfg.Channel,
				"error", err,
			)
			allOK = false
			continue
		}

		m.mu.Lock()
		sub.handle = handle
		m.mu.Unlock()
	}

	if allOK {
		m.markConnected()
		return
	}

	m.mu.Lock()
	m.scheduleReconnectLocked()
	m.mu.Unlock()
}

// notifyLocked snapshots the observer list and state, then notifies
// outside the lock. Caller holds m.mu; the callbacks themselves run
// synchronously in registration order.
func (m *Monitor) notifyLocked() {
	observers := make([]observerEntry, len(m.observers))
	copy(observers, m.observers)
	snapshot := m.snapshot

	m.mu.Unlock()
	for _, entry := range observers {
		m.callObserver(entry.fn, snapshot)
	}
	m.mu.Lock()
}

func (m *Monitor) callObserver(fn Observer, snapshot models.ConnectionState) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("connection observer panicked", "panic", r)
		}
	}()
	fn(snapshot)
}
