package socket

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"emperror.dev/errors"
	"logur.dev/logur"
)

// Hub maintains the set of active clients and broadcasts messages to the
// clients.
type Hub struct {
	clients map[string]*Client

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	logger  logur.Logger
	count   int64
	origins []string

	stop    chan interface{}
	stopped chan interface{}
}

func NewHub(logger logur.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		logger:     logger,
		stop:       make(chan interface{}),
		stopped:    make(chan interface{}),
	}
}

// AllowOrigins restricts which browser origins may open a socket. "*"
// allows any origin, and requests without an Origin header are always
// accepted. Call it before serving.
func (h *Hub) AllowOrigins(origins ...string) {
	h.origins = origins
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stopped:
		client.close()
	}
}

func (h *Hub) UnRegister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

// Broadcast queues message for every connected client. It never blocks: a
// message is dropped when the queue is full.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Error("Cannot write to channel 'broadcast'. Please increase its buffer size")
	}
}

func (h *Hub) BroadcastJson(v interface{}) error {
	message, err := json.Marshal(v)
	if err != nil {
		return errors.WithMessage(err, "Marshal message error")
	}
	h.Broadcast(message)
	return nil
}

// Run dispatches registrations and broadcasts until Stop.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.clients[client.id] = client
			atomic.StoreInt64(&h.count, int64(len(h.clients)))
			h.logger.Debug("Register client", map[string]interface{}{"id": client.id, "total": len(h.clients)})

		case client := <-h.unregister:
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.close()
			}
			atomic.StoreInt64(&h.count, int64(len(h.clients)))
			h.logger.Debug("Unregister client", map[string]interface{}{"id": client.id, "total": len(h.clients)})

		case message := <-h.broadcast:
			for id, client := range h.clients {
				if !client.trySend(message) {
					delete(h.clients, id)
					client.close()
				}
			}
			atomic.StoreInt64(&h.count, int64(len(h.clients)))

		case <-h.stop:
			for id, client := range h.clients {
				delete(h.clients, id)
				client.close()
			}
			atomic.StoreInt64(&h.count, 0)
			return
		}
	}
}

// Len is the number of registered clients.
func (h *Hub) Len() int {
	return int(atomic.LoadInt64(&h.count))
}

func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.stopped
}
