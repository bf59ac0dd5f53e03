package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"codeberg.org/mutker/overtake/internal/assistant"
	"codeberg.org/mutker/overtake/internal/logger"
	"codeberg.org/mutker/overtake/internal/monitor"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{} // use default options

// Hub fans evaluated state out to live clients and answers their chat
// messages. A client that cannot keep up is disconnected.
type Hub struct {
	state     StateReader
	responder assistant.Responder

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(state StateReader, responder assistant.Responder) *Hub {
	return &Hub{
		state:     state,
		responder: responder,
		clients:   make(map[*client]struct{}),
	}
}

// Publish implements monitor.Publisher
func (h *Hub) Publish(st monitor.State) {
	data, err := json.Marshal(Message{Type: MessageMetrics, Body: st})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode live metrics")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.deliverLocked(c, data)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("Live upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	liveClients.Inc()
	h.mu.Unlock()

	logger.Debug().Str("remote", r.RemoteAddr).Msg("Live client connected")

	if st, ok := h.state.Latest(); ok {
		if data, err := json.Marshal(Message{Type: MessageMetrics, Body: st}); err == nil {
			h.deliver(c, data)
		}
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) deliver(c *client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliverLocked(c, data)
}

func (h *Hub) deliverLocked(c *client, data []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		liveDropped.Inc()
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	liveClients.Dec()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in struct {
			Type string `json:"type"`
			Body string `json:"body"`
		}
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("Live client read failed")
			}
			return
		}

		var reply Message
		switch in.Type {
		case MessageChat:
			if resp, ok := answer(h.state, h.responder, in.Body); ok {
				reply = Message{Type: MessageAnswer, Body: resp}
			} else {
				reply = Message{Type: MessageError, Body: ErrCodeNoTelemetry}
			}
		default:
			reply = Message{Type: MessageError, Body: "unknown message type " + in.Type}
		}

		data, err := json.Marshal(reply)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to encode live reply")
			continue
		}
		h.deliver(c, data)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// answer runs the responder against the latest state
func answer(state StateReader, responder assistant.Responder, question string) (ChatResponse, bool) {
	st, ok := state.Latest()
	if !ok {
		return ChatResponse{}, false
	}
	return ChatResponse{
		Question: question,
		Answer:   responder.Answer(question, st.Metrics, assistant.ContextFrom(st.Snapshot)),
		Metrics:  st.Metrics,
	}, true
}
