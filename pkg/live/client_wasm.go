//go:build js && wasm
// +build js,wasm

package live

import (
	"log/slog"
	"syscall/js"

	"github.com/recera/vstyle/pkg/styling"
)

// Client handles the hub connection from the browser
type Client struct {
	ws     js.Value
	url    string
	reg    *styling.StyleRegistry
	logger *slog.Logger
	id     string
	funcs  []js.Func

	onReady func(id string)
	onClose func()
}

// NewClient creates a client that mirrors the hub at url into reg
func NewClient(url string, reg *styling.StyleRegistry, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{url: url, reg: reg, logger: logger.With("component", "live-client")}
}

// Connect opens the WebSocket. Ops are applied from the browser's event
// loop as they arrive.
func (c *Client) Connect() {
	c.ws = js.Global().Get("WebSocket").New(c.url)

	c.handle("onmessage", func(args []js.Value) {
		op, err := DecodeOp([]byte(args[0].Get("data").String()))
		if err != nil {
			c.logger.Warn("skipping message", "error", err)
			return
		}
		if op.Op == OpHello {
			c.id = op.Client
			c.logger.Debug("connected", "client", c.id)
			if c.onReady != nil {
				c.onReady(c.id)
			}
			return
		}
		if err := Apply(c.reg, op); err != nil {
			c.logger.Warn("failed to apply op", "op", op.Op, "error", err)
		}
	})

	c.handle("onerror", func([]js.Value) {
		c.logger.Warn("websocket error", "url", c.url)
	})

	c.handle("onclose", func([]js.Value) {
		c.logger.Info("disconnected", "url", c.url)
		if c.onClose != nil {
			c.onClose()
		}
	})
}

// ID is the id the hub assigned, empty until connected
func (c *Client) ID() string {
	return c.id
}

// Close closes the socket and releases the callbacks
func (c *Client) Close() {
	if !c.ws.IsUndefined() && !c.ws.IsNull() {
		c.ws.Call("close")
	}
	for _, fn := range c.funcs {
		fn.Release()
	}
	c.funcs = nil
}

// OnReady sets the hello handler
func (c *Client) OnReady(handler func(id string)) {
	c.onReady = handler
}

// OnClose sets the disconnect handler
func (c *Client) OnClose(handler func()) {
	c.onClose = handler
}

func (c *Client) handle(prop string, fn func(args []js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(args)
		return nil
	})
	c.funcs = append(c.funcs, f)
	c.ws.Set(prop, f)
}
