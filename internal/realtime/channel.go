package realtime

import "context"

//go:generate moq -out channelclient_mock.go . ChannelClient Subscription

// ChannelStatus is a live-channel event reported by a ChannelClient.
type ChannelStatus string

const (
	// ChannelConnected means the subscription is established.
	ChannelConnected ChannelStatus = "connected"
	// ChannelDisconnected means the subscription closed cleanly.
	ChannelDisconnected ChannelStatus = "disconnected"
	// ChannelError means the subscription failed.
	ChannelError ChannelStatus = "error"
)

// StatusFunc receives subscription status transitions. Calls may come
// from the client's read goroutine.
type StatusFunc func(status ChannelStatus)

// SubscriptionConfig describes one live channel to keep open. Configs
// are retained by the monitor so every channel can be recreated on
// reconnect.
type SubscriptionConfig struct {
	// Channel names the server-side channel, e.g. "user:42:transactions".
	Channel string
	// Params are channel-specific subscription parameters.
	Params map[string]string
}

// Subscription is an open channel handle.
type Subscription interface {
	Close() error
}

// ChannelClient opens live channels against the realtime endpoint. The
// websocket implementation lives in this package; tests inject mocks.
type ChannelClient interface {
	Subscribe(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error)
}
