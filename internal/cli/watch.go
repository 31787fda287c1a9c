package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/steveg1983/wealthtracker-pro-sub004/internal/models"
	"github.com/steveg1983/wealthtracker-pro-sub004/internal/realtime"
)

// RunWatch opens the live channel for the user and prints connection
// transitions until interrupted. The engine is fed online/offline
// events so queued mutations drain as soon as the channel is up.
func (c *Cli) RunWatch(ctx context.Context, userID string) error {
	if c.wsURL == "" {
		return fmt.Errorf("a websocket URL is required, set -ws")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := realtime.NewWebsocketClient(c.wsURL, c.token, slog.Default())
	monitor := realtime.New(client, nil, slog.Default(), realtime.Config{})
	defer monitor.Close()

	unsubscribe := monitor.OnConnectionChange(func(state models.ConnectionState) {
		c.engine.SetOnline(state.IsConnected)
		switch {
		case state.IsConnected:
			fmt.Printf("connected (count: %d)\n", state.ConnectionCount)
		case state.IsReconnecting:
			fmt.Println("reconnecting...")
		default:
			fmt.Println("disconnected")
		}
	})
	defer unsubscribe()

	if err := monitor.Subscribe(ctx, realtime.SubscriptionConfig{
		Channel: "user:" + userID,
	}); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	fmt.Println("Watching connection state. Press Ctrl+C to stop.")
	<-ctx.Done()

	return nil
}
