package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

// Event is one push frame sent to a session's open tabs
type Event struct {
	Type    string      `json:"type"` // chat_answer, cart_updated, wishlist_updated
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one open WebSocket, a browser tab of some session
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte

	MessageCount  int       // messages received this second
	LastResetTime time.Time // last counter reset
	RateMu        sync.Mutex
}

// Hub tracks open connections per session so state changes made through one
// tab show up in the others
type Hub struct {
	// SessionID -> open tabs
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	push       chan *sessionMessage

	mu sync.RWMutex
}

type sessionMessage struct {
	SessionID string
	Message   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		push:       make(chan *sessionMessage, 1024),
	}
}

// Run processes registrations and pushes. Call once in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id": client.SessionID,
				"total_tabs": len(h.clients[client.SessionID]),
			})

		case client := <-h.unregister:
			// A client can be unregistered twice: once by a buffer-full push
			// and once by its read pump's defer. Close the send queue only
			// when this call actually removed it from the list.
			h.mu.Lock()
			found := false
			if clientList, ok := h.clients[client.SessionID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						found = true
						continue
					}
					newList = append(newList, c)
				}
				if found {
					if len(newList) == 0 {
						delete(h.clients, client.SessionID)
					} else {
						h.clients[client.SessionID] = newList
					}
					close(client.Send)
				}
			}
			h.mu.Unlock()
			if found {
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"session_id": client.SessionID,
				})
			}

		case message := <-h.push:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				select {
				case client.Send <- message.Message:
				default:
					// Send buffer full - clean up asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": message.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToSession pushes an event to every open tab of the session. Sessions
// with no open socket are skipped silently.
func (h *Hub) SendToSession(sessionID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal push event", err, map[string]interface{}{
			"session_id": sessionID,
			"type":       event.Type,
		})
		return
	}
	h.push <- &sessionMessage{SessionID: sessionID, Message: data}
}

// CheckRateLimit reports whether the client is within its per-second message
// budget
func (c *Client) CheckRateLimit() bool {
	c.RateMu.Lock()
	defer c.RateMu.Unlock()

	now := time.Now()
	if now.Sub(c.LastResetTime) >= time.Second {
		c.MessageCount = 0
		c.LastResetTime = now
	}

	c.MessageCount++
	return c.MessageCount <= maxMessagesPerSecond
}
