package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries hub broadcasts across instances.
const redisChannel = "cluster_events"

// Hub fans push notifications out to every connected websocket client.
// The shelf is a single shared resource, so there is no per-user routing:
// every event goes to every session.
type Hub struct {
	// Registered clients map: SessionID -> Client (one per socket)
	clients map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.SessionID]; ok && current == client {
				delete(h.clients, client.SessionID)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a notification to every connected client, locally and
// via Redis to every other instance.
func (h *Hub) Broadcast(notification dto.PushNotification) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})

	h.deliverLocal(data)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"origin":  instanceID.String(),
			"message": json.RawMessage(data),
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

// instanceID lets a hub recognize (and skip) its own Redis echoes.
var instanceID = uuid.New()

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	stale := []*Client{}
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Send buffer full; drop the slow client.
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": client.SessionID})
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin  string          `json:"origin"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if payload.Origin == instanceID.String() {
			continue // already delivered locally
		}
		h.deliverLocal(payload.Message)
	}
}
