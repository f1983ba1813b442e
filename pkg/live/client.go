//go:build !wasm
// +build !wasm

package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/recera/vstyle/pkg/styling"
)

// Client mirrors a hub's registry into a local one
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu sync.Mutex
	id string

	closeOnce sync.Once
}

// Dial connects to a hub at url (ws:// or wss://)
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &Client{conn: conn, logger: logger.With("component", "live-client")}, nil
}

// ID is the id the hub assigned, empty until the hello arrives
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Run applies incoming ops to reg until ctx is done or the hub goes away.
// It returns nil when ctx ended or the hub closed normally.
func (c *Client) Run(ctx context.Context, reg *styling.StyleRegistry) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer func() {
		stop()
		c.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("live read: %w", err)
		}

		op, err := DecodeOp(data)
		if err != nil {
			c.logger.Warn("skipping message", "error", err)
			continue
		}
		if op.Op == OpHello {
			c.mu.Lock()
			c.id = op.Client
			c.mu.Unlock()
			c.logger.Debug("connected", "client", op.Client)
			continue
		}
		if err := Apply(reg, op); err != nil {
			c.logger.Warn("failed to apply op", "op", op.Op, "selector", op.Selector, "error", err)
		}
	}
}

// Close sends a close frame and closes the connection. It is safe to call
// more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		werr := c.conn.WriteMessage(websocket.CloseMessage, msg)
		if errors.Is(werr, websocket.ErrCloseSent) {
			werr = nil
		}
		err = errors.Join(werr, c.conn.Close())
	})
	return err
}
