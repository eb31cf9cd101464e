package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Envelope wraps every message pushed to connected clients.
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans realtime events out to all connected websocket clients.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewHub constructs an idle hub; call Start before attaching clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start launches the hub event loop.
func (h *Hub) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	h.wg.Add(1)
	go h.run(runCtx)
}

// Stop disconnects all clients and waits for the event loop to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// Broadcast serializes the event and queues it for delivery to every client.
// Delivery is best effort: a stopped hub or a full queue drops the message.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := json.Marshal(Envelope{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		h.logger.Error("marshal broadcast failed", slog.String("event", event), slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
		h.logger.Warn("broadcast after hub stop dropped", slog.String("event", event))
	default:
		h.logger.Warn("broadcast queue full, dropping event", slog.String("event", event))
	}
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Info("websocket client connected", slog.String("user", client.username))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("websocket client disconnected", slog.String("user", client.username))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A stalled reader must not block everyone else.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}
