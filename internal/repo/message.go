package repo

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// MessageRepo defines the persistence operations for chat Messages.
// Messages are immutable, so there is no Update.
type MessageRepo interface {
	// Create assigns an id and created_at and appends the message.
	Create(ctx context.Context, m domain.Message) (domain.Message, error)

	// ListByTrip returns the trip's messages sorted ascending by created_at.
	// Messages with equal timestamps keep their storage order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error)
}

type kvMessageRepo struct {
	c    collection[domain.Message]
	opts Options
}

// NewMessageRepo constructs a MessageRepo stored in b.
func NewMessageRepo(b kv.Backend, opts Options) MessageRepo {
	opts = opts.withDefaults()
	return &kvMessageRepo{c: newCollection[domain.Message](b, keyMessages, opts.Logger), opts: opts}
}

func (r *kvMessageRepo) Create(ctx context.Context, m domain.Message) (domain.Message, error) {
	m.ID = uuid.New()
	m.CreatedAt = r.opts.Now()

	err := r.c.mutate(ctx, func(msgs []domain.Message) ([]domain.Message, error) {
		return append(msgs, m), nil
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("repo.MessageRepo.Create: %w", err)
	}
	return m, nil
}

func (r *kvMessageRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error) {
	msgs, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.MessageRepo.ListByTrip: %w", err)
	}
	out := filter(msgs, func(m domain.Message) bool { return m.TripID == tripID })
	slices.SortStableFunc(out, func(a, b domain.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}
