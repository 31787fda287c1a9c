package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/clock"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okSubscription() *SubscriptionMock {
	return &SubscriptionMock{CloseFunc: func() error { return nil }}
}

func TestSubscribeSuccessConnects(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	m := New(client, clock.NewFake(), discardLogger(), Config{})
	defer m.Close()

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))

	assert.Equal(t, StateConnected, m.State())
	snapshot := m.Snapshot()
	assert.True(t, snapshot.IsConnected)
	assert.Equal(t, 1, snapshot.ConnectionCount)
}

func TestReconnectDelaysDoubleUpToGaveUp(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return nil, errors.New("dial refused")
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{BaseDelay: time.Second, MaxAttempts: 5})
	defer m.Close()

	// Initial open fails and arms the first reconnect timer.
	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	assert.Equal(t, StateReconnecting, m.State())

	delays := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		16000 * time.Millisecond,
	}

	calls := 1 // the initial Subscribe
	for _, delay := range delays {
		require.Equal(t, 1, clk.PendingTimers(), "exactly one timer outstanding")

		// Just before the deadline nothing fires.
		clk.Advance(delay - time.Millisecond)
		assert.Len(t, client.SubscribeCalls(), calls)

		clk.Advance(time.Millisecond)
		calls++
		assert.Len(t, client.SubscribeCalls(), calls)
	}

	// The budget is spent: no sixth timer, the machine gave up.
	assert.Equal(t, 0, clk.PendingTimers())
	assert.Equal(t, StateGaveUp, m.State())
	assert.False(t, m.Snapshot().IsReconnecting)

	clk.Advance(time.Hour)
	assert.Len(t, client.SubscribeCalls(), calls)
}

func TestRepeatedDropsKeepSingleTimer(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{})
	defer m.Close()

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	require.Equal(t, StateConnected, m.State())

	fn := client.SubscribeCalls()[0].Fn
	fn(ChannelError)
	fn(ChannelError)
	fn(ChannelDisconnected)

	assert.Equal(t, StateReconnecting, m.State())
	assert.Equal(t, 1, clk.PendingTimers())
}

func TestReconnectAfterDropRestoresConnection(t *testing.T) {
	failing := true
	client := &ChannelClientMock{}
	client.SubscribeFunc = func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
		if failing {
			return nil, errors.New("dial refused")
		}
		return okSubscription(), nil
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{})
	defer m.Close()

	failing = false
	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	require.Equal(t, 1, m.Snapshot().ConnectionCount)

	// Drop, fail one attempt, then succeed on the second.
	failing = true
	client.SubscribeCalls()[0].Fn(ChannelError)
	clk.Advance(time.Second)
	assert.Equal(t, StateReconnecting, m.State())

	failing = false
	clk.Advance(2 * time.Second)

	assert.Equal(t, StateConnected, m.State())
	snapshot := m.Snapshot()
	assert.True(t, snapshot.IsConnected)
	assert.Equal(t, 2, snapshot.ConnectionCount)
	assert.Equal(t, 0, clk.PendingTimers())
}

func TestForceReconnectResetsAttemptBudget(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return nil, errors.New("dial refused")
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{BaseDelay: time.Second, MaxAttempts: 5})
	defer m.Close()

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	clk.Advance(time.Hour)
	require.Equal(t, StateGaveUp, m.State())

	// Force runs an attempt immediately and re-arms from the base delay.
	before := len(client.SubscribeCalls())
	m.ForceReconnect()
	assert.Len(t, client.SubscribeCalls(), before+1)
	assert.Equal(t, StateReconnecting, m.State())

	clk.Advance(time.Second - time.Millisecond)
	assert.Len(t, client.SubscribeCalls(), before+1)
	clk.Advance(time.Millisecond)
	assert.Len(t, client.SubscribeCalls(), before+2)
}

func TestObserverFiresImmediatelyAndOnTransitions(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	m := New(client, clock.NewFake(), discardLogger(), Config{})
	defer m.Close()

	var states []models.ConnectionState
	unsubscribe := m.OnConnectionChange(func(state models.ConnectionState) {
		states = append(states, state)
	})

	// Immediate fire with the initial snapshot.
	require.Len(t, states, 1)
	assert.False(t, states[0].IsConnected)

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	require.Len(t, states, 2)
	assert.True(t, states[1].IsConnected)

	unsubscribe()
	client.SubscribeCalls()[0].Fn(ChannelError)
	assert.Len(t, states, 2)
}

func TestObserversRunInRegistrationOrder(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	m := New(client, clock.NewFake(), discardLogger(), Config{})
	defer m.Close()

	var order []string
	m.OnConnectionChange(func(models.ConnectionState) { order = append(order, "first") })
	m.OnConnectionChange(func(models.ConnectionState) { order = append(order, "second") })

	order = order[:0]
	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPanickingObserverDoesNotAffectOthers(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	m := New(client, clock.NewFake(), discardLogger(), Config{})
	defer m.Close()

	notified := 0
	m.OnConnectionChange(func(models.ConnectionState) { panic("observer bug") })
	m.OnConnectionChange(func(models.ConnectionState) { notified++ })

	notified = 0
	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))

	assert.Equal(t, 1, notified)
	assert.Equal(t, StateConnected, m.State())
}

func TestReconnectRecreatesEverySubscription(t *testing.T) {
	handles := map[string]*SubscriptionMock{}
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			sub := okSubscription()
			handles[cfg.Channel] = sub
			return sub, nil
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{})
	defer m.Close()

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "accounts:1"}))

	firstUser := handles["user:1"]
	client.SubscribeCalls()[0].Fn(ChannelError)
	clk.Advance(time.Second)

	assert.Equal(t, StateConnected, m.State())

	// Both channels were re-opened and the stale handle was closed.
	channels := map[string]int{}
	for _, call := range client.SubscribeCalls() {
		channels[call.Cfg.Channel]++
	}
	assert.Equal(t, 2, channels["user:1"])
	assert.Equal(t, 2, channels["accounts:1"])
	assert.NotEmpty(t, firstUser.CloseCalls())
}

func TestDropAfterLastUnsubscribeSettlesDisconnected(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return okSubscription(), nil
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{})
	defer m.Close()

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	require.Equal(t, StateConnected, m.State())

	// The closed handle's read loop still reports the drop; with no
	// configs left there is nothing to reconnect.
	m.Unsubscribe("user:1")
	client.SubscribeCalls()[0].Fn(ChannelDisconnected)

	assert.Equal(t, StateDisconnected, m.State())
	assert.Equal(t, 0, clk.PendingTimers())

	snapshot := m.Snapshot()
	assert.False(t, snapshot.IsConnected)
	assert.False(t, snapshot.IsReconnecting)
	assert.Equal(t, 1, snapshot.ConnectionCount)

	clk.Advance(time.Hour)
	assert.Len(t, client.SubscribeCalls(), 1)
	assert.Equal(t, StateDisconnected, m.State())
}

func TestCloseStopsReconnects(t *testing.T) {
	client := &ChannelClientMock{
		SubscribeFunc: func(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
			return nil, errors.New("dial refused")
		},
	}
	clk := clock.NewFake()
	m := New(client, clk, discardLogger(), Config{})

	require.NoError(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:1"}))
	m.Close()

	calls := len(client.SubscribeCalls())
	clk.Advance(time.Hour)
	assert.Len(t, client.SubscribeCalls(), calls)

	require.Error(t, m.Subscribe(context.Background(), SubscriptionConfig{Channel: "user:2"}))
}
