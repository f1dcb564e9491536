package sqs

import (
	"time"

	"github.com/google/uuid"
)

// CatalogMessage is the body published for every catalog change.
type CatalogMessage struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
