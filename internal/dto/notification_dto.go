package dto

import (
	"time"

	"github.com/google/uuid"
)

// PushNotification is the ephemeral payload delivered over the websocket
// hub. Nothing is persisted; a client that is offline misses the event.
type PushNotification struct {
	Id         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
