package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes user chat from generated notices.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageSystem MessageType = "system"
)

// IsValid reports whether t is one of the known types.
func (t MessageType) IsValid() bool {
	return t == MessageText || t == MessageSystem
}

// Message is an immutable chat entry on a trip.
type Message struct {
	ID        uuid.UUID   `json:"id"`
	TripID    uuid.UUID   `json:"trip_id"`
	UserID    uuid.UUID   `json:"user_id"`
	Content   string      `json:"content"`
	Type      MessageType `json:"message_type"`
	CreatedAt time.Time   `json:"created_at"`
}
