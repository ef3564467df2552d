// Package live pushes result and leaderboard updates to connected clients
// over websockets.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// EventGameResult is broadcast after an admin finalizes a game.
	EventGameResult = "GAME_RESULT"
	// EventStandings is broadcast after final group standings are entered.
	EventStandings = "GROUP_STANDINGS"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	closed bool
	mu     sync.Mutex
}

// Hub fans broadcast messages out to every connected client. There is one
// tournament, so there is one room: everybody gets everything.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.logger.Info("websocket client registered", slog.Int("clients", len(h.clients)))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				client.mu.Lock()
				if !client.closed {
					close(client.Send)
					client.closed = true
				}
				client.mu.Unlock()
				delete(h.clients, client)
				h.logger.Info("websocket client unregistered", slog.Int("clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.mu.Lock()
				if client.closed {
					client.mu.Unlock()
					continue
				}
				select {
				case client.Send <- message:
				default:
					// Slow client, skip rather than block the hub.
				}
				client.mu.Unlock()
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastEvent marshals and queues a typed message for every client.
func (h *Hub) BroadcastEvent(eventType string, payload interface{}) {
	message, err := json.Marshal(Message{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.Any("error", err))
		return
	}
	h.Broadcast <- message
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Clients only listen; inbound messages are drained and dropped.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
