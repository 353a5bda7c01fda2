// Package ws pushes best-effort notifications (incoming friend request, new
// match, new message) to connected clients. Pages never depend on it for
// correctness; they re-fetch and re-derive state on activation.
package ws

import (
	"encoding/json"
	"sync"
)

type Hub struct {
	userConns  map[int64]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		userConns:  make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns := h.userConns[client.UserID]; conns != nil {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.userConns, client.UserID)
					}
					close(client.Send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers an event to every open connection of a user. The
// iteration and the channel sends stay under the read lock, so Run cannot
// mutate the connection set or close a Send channel mid-send. Sends are
// non-blocking; slow consumers are dropped after the lock is released.
func (h *Hub) SendToUser(userID int64, event string, data any) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.userConns[userID] {
		select {
		case client.Send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregister <- client
	}
}
