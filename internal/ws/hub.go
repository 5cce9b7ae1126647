// Package ws pushes resource change events to connected back office clients.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the part of a websocket connection the hub needs.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one connection belonging to a company.
type Client struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Conn      Conn
}

type message struct {
	companyID uuid.UUID
	payload   []byte
}

// Hub fans events out to the clients of one company at a time.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// textMessage matches websocket.TextMessage.
const textMessage = 1

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mutex.Lock()
			for _, set := range h.clients {
				for client := range set {
					client.Conn.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mutex.Unlock()
			return

		case client := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[client.CompanyID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.CompanyID] = set
			}
			set[client] = true
			h.mutex.Unlock()
			h.logger.Debug("WS client connected",
				zap.String("company_id", client.CompanyID.String()),
				zap.String("user_id", client.UserID.String()))

		case client := <-h.unregister:
			h.mutex.Lock()
			h.remove(client)
			h.mutex.Unlock()

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients[msg.companyID] {
				if err := client.Conn.WriteMessage(textMessage, msg.payload); err != nil {
					h.logger.Debug("Dropping WS client", zap.Error(err))
					h.remove(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove must be called with the mutex held.
func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.CompanyID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	client.Conn.Close()
	if len(set) == 0 {
		delete(h.clients, client.CompanyID)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Conn.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() { close(h.done) }

// Notify queues event for every client of companyID. It never blocks the caller;
// when the queue is full the event is dropped and logged.
func (h *Hub) Notify(companyID uuid.UUID, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode WS event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- message{companyID: companyID, payload: payload}:
	default:
		h.logger.Warn("WS broadcast queue full, event dropped", zap.String("company_id", companyID.String()))
	}
}

// Count returns the number of connected clients of a company.
func (h *Hub) Count(companyID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[companyID])
}
