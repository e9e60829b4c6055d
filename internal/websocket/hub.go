package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Event is a task change notification. Events are only delivered to the
// connections of the task's owner.
type Event struct {
	Type    string `json:"type"`
	TaskID  int    `json:"task_id"`
	OwnerID int    `json:"owner_id"`
}

// Client is one authenticated WebSocket connection.
type Client struct {
	Conn   *websocket.Conn
	UserID int
	Mu     sync.Mutex
}

// Hub manages WebSocket connections and fans task events out to owners.
type Hub struct {
	Clients    map[*Client]bool
	Events     chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Events:     make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish queues an event without blocking the caller; events are dropped
// when the hub is saturated. Safe to call on a nil hub.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	select {
	case h.Events <- ev:
	default:
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case ev := <-h.Events:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			for client := range h.Clients {
				if client.UserID != ev.OwnerID {
					continue
				}
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, payload)
				client.Mu.Unlock()
				if err != nil {
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
