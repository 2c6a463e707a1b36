package overlay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
)

// Hub maintains the set of connected overlay clients and fans published
// snapshots out to them. Register, unregister, and broadcast all flow
// through channels owned by the single Run goroutine; Publish never
// blocks the poll loop, dropping the frame when the hub is saturated.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[*Client]bool
	log        *logrus.Logger
	metrics    *Metrics

	mu     sync.RWMutex
	latest []byte
}

var _ ports.SnapshotPublisher = (*Hub)(nil)

func NewHub(log *logrus.Logger, metrics *Metrics) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
		metrics:    metrics,
	}
}

// Run owns the client map until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Unblocks pumps still trying to register/unregister.
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.setClientCount()
			h.log.Info("overlay hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.setClientCount()
			h.log.WithField("client", client.id).Info("overlay client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.setClientCount()
				h.log.WithField("client", client.id).Info("overlay client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
					h.setClientCount()
					h.log.WithField("client", client.id).Warn("overlay client too slow, dropped")
				}
			}
		}
	}
}

// Publish marshals the snapshot once, stores it for the initial-paint
// endpoint, and queues it for broadcast.
func (h *Hub) Publish(snapshot domain.OverlaySnapshot) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		h.log.WithError(err).Error("marshal overlay snapshot")
		return
	}

	h.mu.Lock()
	h.latest = payload
	h.mu.Unlock()

	select {
	case h.broadcast <- payload:
	default:
	}
}

// Latest returns the most recently published snapshot payload, or nil
// before the first poll.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.latest
}

func (h *Hub) setClientCount() {
	if h.metrics != nil {
		h.metrics.SetClients(len(h.clients))
	}
}
