package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/coder/websocket"
)

// WebsocketClient implements ChannelClient over a websocket endpoint.
// Each subscription dials its own connection so a slow channel cannot
// stall the others.
type WebsocketClient struct {
	baseURL string
	token   string
	logger  *slog.Logger
}

var _ ChannelClient = (*WebsocketClient)(nil)

// NewWebsocketClient creates a client for the given endpoint, e.g.
// "ws://localhost:8080/realtime". The token is sent in the subscribe
// frame so the server can authorize the channel.
func NewWebsocketClient(baseURL, token string, logger *slog.Logger) *WebsocketClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebsocketClient{
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
}

// subscribeFrame is the first frame sent after dialing.
type subscribeFrame struct {
	Channel string            `json:"channel"`
	Token   string            `json:"token,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Subscribe dials the endpoint, announces the channel and starts a read
// loop. The status callback fires once on success and again when the
// connection ends, from the read goroutine.
func (c *WebsocketClient) Subscribe(ctx context.Context, cfg SubscriptionConfig, fn StatusFunc) (Subscription, error) {
	conn, _, err := websocket.Dial(ctx, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", c.baseURL, err)
	}

	frame, err := json.Marshal(subscribeFrame{
		Channel: cfg.Channel,
		Token:   c.token,
		Params:  cfg.Params,
	})
	if err != nil {
		conn.Close(websocket.StatusInternalError, "encode failure")
		return nil, fmt.Errorf("failed to encode subscribe frame: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
		conn.Close(websocket.StatusProtocolError, "subscribe failure")
		return nil, fmt.Errorf("failed to send subscribe frame: %w", err)
	}

	sub := &wsSubscription{
		conn:   conn,
		cancel: func() {},
	}

	readCtx, cancel := context.WithCancel(context.Background())
	sub.cancel = cancel

	fn(ChannelConnected)
	go c.readLoop(readCtx, conn, cfg.Channel, fn)

	return sub, nil
}

// readLoop drains incoming frames until the connection ends. Payloads
// are discarded here; the monitor only cares about liveness, and data
// consumers attach their own handlers server side.
func (c *WebsocketClient) readLoop(ctx context.Context, conn *websocket.Conn, channel string, fn StatusFunc) {
	for {
		_, _, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				fn(ChannelDisconnected)
				return
			}
			c.logger.Debug("websocket read failed", "channel", channel, "error", err)
			fn(ChannelError)
			return
		}
	}
}

type wsSubscription struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func (s *wsSubscription) Close() error {
	s.cancel()
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
