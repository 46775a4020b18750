package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/pkg/logger"
	"bookshelf-ai-be/pkg/events"
	pktNats "bookshelf-ai-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notification dto.PushNotification)
}

// notificationTemplate maps an event type to the human-readable push
// payload. Placeholders like {seed_count} are filled from the event data.
type notificationTemplate struct {
	Title   string
	Message string
}

var notificationTemplates = map[string]notificationTemplate{
	"SEEDS_REPLACED": {
		Title:   "Shelf updated",
		Message: "Your shelf now holds {seed_count} books ({pending_embeddings} still embedding).",
	},
	"BOOK_EMBEDDED": {
		Title:   "Book ready",
		Message: "{title} is now part of your recommendation profile.",
	},
	"SYSTEM_BROADCAST": {
		Title:   "{title}",
		Message: "{message}",
	},
}

// NotificationService turns domain events from the NATS bus into
// ephemeral websocket pushes. Nothing is persisted.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Strip "events." prefix from type if present (NATS subject includes stream name)
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	template, ok := notificationTemplates[typeCode]
	if !ok {
		s.logger.Debug("NotificationService", fmt.Sprintf("No template for event '%s', skipping", typeCode), nil)
		return nil
	}

	if s.delivery != nil {
		s.delivery.Broadcast(s.buildNotification(typeCode, template, event))
	}
	return nil
}

func (s *NotificationService) buildNotification(typeCode string, template notificationTemplate, event events.Event) dto.PushNotification {
	payload := event.Payload()

	// Simple template engine
	fill := func(text string) string {
		for k, v := range payload {
			placeholder := fmt.Sprintf("{%s}", k)
			text = strings.ReplaceAll(text, placeholder, fmt.Sprintf("%v", v))
		}
		return text
	}

	occurredAt := event.Timestamp()
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return dto.PushNotification{
		Id:         uuid.New(),
		Type:       typeCode,
		Title:      fill(template.Title),
		Message:    fill(template.Message),
		Metadata:   payload,
		OccurredAt: occurredAt,
	}
}
