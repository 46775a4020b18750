package handler

import (
	"time"

	"bookshelf-ai-be/internal/pkg/logger"
	internalWS "bookshelf-ai-be/internal/websocket"
	"bookshelf-ai-be/pkg/events"
	pktNats "bookshelf-ai-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationHandler exposes the websocket upgrade endpoint and a small
// broadcast trigger for operational messages.
type NotificationHandler struct {
	publisher *pktNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewNotificationHandler(pub *pktNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs upgrades the connection and attaches it to the hub.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", nil)
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("NotificationHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// Broadcast publishes a system-wide notification onto the event bus.
func (h *NotificationHandler) Broadcast(c *fiber.Ctx) error {
	type Request struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title and Message are required"})
	}

	evt := events.BaseEvent{
		Type: "SYSTEM_BROADCAST",
		Data: map[string]interface{}{
			"title":   req.Title,
			"message": req.Message,
		},
		OccurredAt: time.Now(),
	}

	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Event publisher not configured"})
	}
	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Broadcast Queued"})
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Post("/broadcast", h.Broadcast)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
