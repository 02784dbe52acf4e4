// Package monitoring pushes live prediction events to connected
// dashboard clients over WebSocket.
package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ZinedineAmal/Loyalty-Through-Data-Gym-Retention-Analysis/ml"
)

// EventType tags a dashboard event.
type EventType string

const (
	PredictionEvent EventType = "prediction"
	HeartbeatEvent  EventType = "heartbeat"
)

// Event is one message pushed to dashboard clients.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// PredictionPayload is the data carried by a prediction event.
type PredictionPayload struct {
	Record ml.CustomerRecord   `json:"record"`
	Result ml.PredictionResult `json:"result"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans prediction events out to every connected client.
type Hub struct {
	clients     map[*client]bool
	clientCount int32
	broadcast   chan []byte
	register    chan *client
	unregister  chan *client
	upgrader    websocket.Upgrader
	logger      *zap.Logger
	done        chan struct{}
	once        sync.Once
}

// NewHub creates a hub; call Run before serving connections.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Run owns the client set; it exits when Stop is called.
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			atomic.StoreInt32(&h.clientCount, int32(len(h.clients)))
			h.logger.Info("dashboard client connected", zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				atomic.StoreInt32(&h.clientCount, int32(len(h.clients)))
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client: drop it rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
			atomic.StoreInt32(&h.clientCount, int32(len(h.clients)))
		case <-ticker.C:
			if beat, err := marshalEvent(HeartbeatEvent, nil); err == nil {
				for c := range h.clients {
					select {
					case c.send <- beat:
					default:
					}
				}
			}
		case <-h.done:
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			h.clients = make(map[*client]bool)
			atomic.StoreInt32(&h.clientCount, 0)
			return
		}
	}
}

// Stop disconnects every client and ends Run.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// Clients reports how many dashboard connections the hub is serving.
func (h *Hub) Clients() int {
	return int(atomic.LoadInt32(&h.clientCount))
}

// BroadcastPrediction pushes one completed prediction to all clients.
func (h *Hub) BroadcastPrediction(record ml.CustomerRecord, result ml.PredictionResult) {
	message, err := marshalEvent(PredictionEvent, PredictionPayload{Record: record, Result: result})
	if err != nil {
		h.logger.Warn("marshal prediction event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("prediction event dropped, broadcast buffer full")
	}
}

func marshalEvent(eventType EventType, payload interface{}) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = encoded
	}
	return json.Marshal(Event{Type: eventType, Timestamp: time.Now().UTC(), Data: data})
}

// ServeWS upgrades one HTTP request into a hub connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	select {
	case h.register <- c:
	case <-h.done:
		// The hub already shut down; nothing will ever drain register.
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the feed is one-way. It exists to
// notice client disconnects.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
