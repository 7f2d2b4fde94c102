package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

const maxMessageLen = 4000

// MessageService handles trip chat.
type MessageService struct {
	trips    repo.TripRepo
	messages repo.MessageRepo
	policy   *bluemonday.Policy
}

// NewMessageService constructs a MessageService.
func NewMessageService(trips repo.TripRepo, messages repo.MessageRepo) *MessageService {
	return &MessageService{trips: trips, messages: messages, policy: bluemonday.StrictPolicy()}
}

// Send posts content to the trip's chat. Markup is stripped; content that
// is empty afterwards is rejected. msgType defaults to text.
func (s *MessageService) Send(ctx context.Context, tripID, userID uuid.UUID, content string, msgType domain.MessageType) (domain.Message, error) {
	if msgType == "" {
		msgType = domain.MessageText
	}
	if !msgType.IsValid() {
		return domain.Message{}, invalid("unknown message type %q", msgType)
	}
	clean := s.sanitize(content)
	if clean == "" {
		return domain.Message{}, invalid("content is required")
	}
	if len(clean) > maxMessageLen {
		return domain.Message{}, invalid("content exceeds %d characters", maxMessageLen)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Send: %w", err)
	}

	m, err := s.messages.Create(ctx, domain.Message{
		TripID:  tripID,
		UserID:  userID,
		Content: clean,
		Type:    msgType,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("service.MessageService.Send: %w", err)
	}
	return m, nil
}

// List returns the trip's messages oldest first. Always non-nil.
func (s *MessageService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error) {
	msgs, err := s.messages.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MessageService.List: %w", err)
	}
	if msgs == nil {
		return []domain.Message{}, nil
	}
	return msgs, nil
}

// sanitize strips all markup. The text that remains is HTML-escaped, so it
// is safe to render as-is.
func (s *MessageService) sanitize(content string) string {
	return strings.TrimSpace(s.policy.Sanitize(content))
}
