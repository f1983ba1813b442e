//go:build !wasm
// +build !wasm

package live

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/recera/vstyle/pkg/dom"
	"github.com/recera/vstyle/pkg/events"
	"github.com/recera/vstyle/pkg/styling"
	"github.com/recera/vstyle/pkg/tools"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is how many ops a client may lag behind before it is dropped
	sendBuffer = 256
)

var changeEvents = []string{styling.EventInsert, styling.EventUpdate, styling.EventRemove}

// Hub serves a registry to WebSocket clients
type Hub struct {
	reg      *styling.StyleRegistry
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	clients   map[string]*session
	listeners map[string]dom.ListenerID
	closed    bool

	close func() error
}

// session is one connected client
type session struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewHub starts broadcasting the changes of reg
func NewHub(reg *styling.StyleRegistry, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		reg:    reg,
		logger: logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients:   make(map[string]*session),
		listeners: make(map[string]dom.ListenerID),
	}
	h.close = tools.Once(h.shutdown)

	head := reg.Document().Head()
	for _, typ := range changeEvents {
		h.listeners[typ] = events.On(head, typ, h.onChange)
	}
	return h
}

// ServeHTTP upgrades the request and streams ops until the client leaves
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "hub closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s, err := h.register(conn)
	if err != nil {
		conn.Close()
		return
	}
	h.logger.Info("client connected", "client", s.id, "remote", r.RemoteAddr)

	go h.writer(s)
	h.reader(s)
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and stops listening to the registry.
// Calling it again is a no-op.
func (h *Hub) Close() error {
	return h.close()
}

func (h *Hub) shutdown() error {
	head := h.reg.Document().Head()

	h.mu.Lock()
	h.closed = true
	for typ, id := range h.listeners {
		events.OffListener(head, typ, id)
	}
	clients := h.clients
	h.clients = make(map[string]*session)
	h.mu.Unlock()

	// writers send a close frame and close their connection
	for _, s := range clients {
		s.stop()
	}
	h.logger.Info("hub closed", "clients", len(clients))
	return nil
}

// register queues the hello and the snapshot and adds the session in one
// critical section. A change committed before the snapshot is in it; one
// committed after reaches broadcast only once the session is listed.
func (h *Hub) register(conn *websocket.Conn) (*session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, errors.New("hub closed")
	}

	entries := h.reg.Entries()
	s := &session{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer+len(entries)+1),
		done: make(chan struct{}),
	}

	hello, err := Op{Op: OpHello, Client: s.id}.Encode()
	if err != nil {
		return nil, err
	}
	s.send <- hello
	for _, e := range entries {
		data, err := OpFromEntry(e).Encode()
		if err != nil {
			return nil, err
		}
		s.send <- data
	}

	h.clients[s.id] = s
	return s, nil
}

func (h *Hub) onChange(e *dom.Event) {
	c, ok := e.Detail.(styling.Change)
	if !ok {
		return
	}
	data, err := OpFromChange(c).Encode()
	if err != nil {
		h.logger.Error("failed to encode change", "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcast(data []byte) {
	var slow []*session

	h.mu.RLock()
	for _, s := range h.clients {
		select {
		case s.send <- data:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.logger.Warn("dropping slow client", "client", s.id)
		h.drop(s)
	}
}

func (h *Hub) drop(s *session) {
	h.mu.Lock()
	if h.clients[s.id] == s {
		delete(h.clients, s.id)
	}
	h.mu.Unlock()
	s.stop()
}

// reader drains the connection so pongs and close frames are handled
func (h *Hub) reader(s *session) {
	defer func() {
		h.drop(s)
		s.conn.Close()
		h.logger.Info("client disconnected", "client", s.id)
	}()

	s.conn.SetReadLimit(4096)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("unexpected close", "client", s.id, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writer(s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("write failed", "client", s.id, "error", err)
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *session) stop() {
	s.once.Do(func() { close(s.done) })
}
