// Package live pushes whole-collection snapshots to websocket clients.
// Every client subscribes to one collection; whenever the store reports
// a change, every subscriber of that collection receives the full new
// snapshot and replaces its view.
package live

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn       *websocket.Conn
	Send       chan []byte
	Collection string
}

type broadcastMsg struct {
	Collection string
	Data       []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Collection] == nil {
				h.rooms[c.Collection] = make(map[*Client]bool)
			}
			h.rooms[c.Collection][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Collection]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Collection] {
				select {
				case c.Send <- m.Data:
				default:
					// slow client; drop it rather than stall the feed
					close(c.Send)
					delete(h.rooms[m.Collection], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}
