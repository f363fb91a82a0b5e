package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/harborgames/seastrike/game/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Handler reacts to connection lifecycle changes and decoded client events.
// HandleDisconnecting runs while the departing connection's channel
// membership is still queryable; HandleDisconnect runs after removal.
type Handler interface {
	HandleConnect(connID string)
	HandleEvent(connID, event string, data json.RawMessage)
	HandleDisconnecting(connID string)
	HandleDisconnect(connID string)
}

// Conn is one client connection managed by the hub.
type Conn struct {
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	id   string
}

// ID returns the hub-assigned connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// Hub owns every connection and the channel-membership table. Each
// connection is a member of a private channel named after its own id, so
// emitting to a connection id and emitting to a room go through the same
// path. Membership lives only here; callers query it live instead of
// keeping copies.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*Conn
	channels map[string]map[string]*Conn
	byConn   map[string]map[string]struct{}

	handler Handler

	upgrader websocket.Upgrader
}

// NewHub creates a hub. With no allowed origins, every origin is accepted,
// matching the wide-open CORS posture of the default config.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		conns:    make(map[string]*Conn),
		channels: make(map[string]map[string]*Conn),
		byConn:   make(map[string]map[string]struct{}),
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	return h
}

// SetHandler registers the event handler. Must be called before ServeWS.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

// ServeWS upgrades an HTTP request, assigns the connection an id, places it
// in its private channel, and starts the read/write pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := &Conn{
		hub:  h,
		ws:   ws,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
		id:   uuid.NewString(),
	}

	h.mu.Lock()
	h.conns[conn.id] = conn
	h.channels[conn.id] = map[string]*Conn{conn.id: conn}
	h.byConn[conn.id] = map[string]struct{}{conn.id: {}}
	h.mu.Unlock()

	go conn.writePump()

	// The init update must be queued before any client frame is read, so
	// readPump starts only once the handler has seen the connection.
	if h.handler != nil {
		h.handler.HandleConnect(conn.id)
	}

	go conn.readPump()
}

// Join adds the connection to a named channel. Unknown connections are
// ignored; they are already gone.
func (h *Hub) Join(connID, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[string]*Conn)
	}
	h.channels[channel][connID] = conn
	h.byConn[connID][channel] = struct{}{}
}

// Leave removes the connection from a named channel, dropping the channel
// entirely once its last member is gone.
func (h *Hub) Leave(connID, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.channels[channel]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	if chans, ok := h.byConn[connID]; ok {
		delete(chans, channel)
	}
}

// MembersOf returns the ids of every connection currently in the channel.
// A channel nobody occupies yields an empty slice.
func (h *Hub) MembersOf(channel string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]string, 0, len(h.channels[channel]))
	for id := range h.channels[channel] {
		members = append(members, id)
	}
	return members
}

// ChannelsOf returns every channel the connection occupies, including its
// private channel.
func (h *Hub) ChannelsOf(connID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channels := make([]string, 0, len(h.byConn[connID]))
	for name := range h.byConn[connID] {
		channels = append(channels, name)
	}
	return channels
}

// Channels returns the name of every channel with at least one member.
func (h *Hub) Channels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.channels))
	for name := range h.channels {
		names = append(names, name)
	}
	return names
}

// Emit sends a named event to every connection in the target channel. The
// target may be a room name or a connection id (its private channel). A slow
// consumer has the frame dropped rather than blocking the caller.
func (h *Hub) Emit(target, event string, data any) {
	env := protocol.Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("Failed to marshal %s payload: %v", event, err)
			return
		}
		env.Data = raw
	}

	frame, err := json.Marshal(env)
	if err != nil {
		log.Printf("Failed to marshal %s envelope: %v", event, err)
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.channels[target]))
	for _, conn := range h.channels[target] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		select {
		case conn.send <- frame:
		default:
			log.Printf("Dropping %s frame for slow connection %s", event, conn.id)
		}
	}
}

// drop tears a connection down in two stages: the handler observes the
// connection while its membership is still queryable, then membership is
// removed, then the handler is told removal is complete.
func (h *Hub) drop(conn *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn.id]; !ok {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	if h.handler != nil {
		h.handler.HandleDisconnecting(conn.id)
	}

	h.mu.Lock()
	for channel := range h.byConn[conn.id] {
		if members, ok := h.channels[channel]; ok {
			delete(members, conn.id)
			if len(members) == 0 {
				delete(h.channels, channel)
			}
		}
	}
	delete(h.byConn, conn.id)
	delete(h.conns, conn.id)
	// send stays open: a concurrent Emit may still hold a reference to the
	// connection. done tells writePump to stop draining it.
	close(conn.done)
	h.mu.Unlock()

	if h.handler != nil {
		h.handler.HandleDisconnect(conn.id)
	}
}

// readPump pumps frames from the WebSocket connection to the handler.
func (c *Conn) readPump() {
	defer func() {
		c.hub.drop(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var env protocol.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			log.Printf("Ignoring malformed frame from %s: %v", c.id, err)
			continue
		}
		if env.Event == "" {
			log.Printf("Ignoring frame without event from %s", c.id)
			continue
		}

		if c.hub.handler != nil {
			c.hub.handler.HandleEvent(c.id, env.Event, env.Data)
		}
	}
}

// writePump pumps frames from the hub to the WebSocket connection.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
