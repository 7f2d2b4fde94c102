package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// ActivityRepo defines the persistence operations for Activities.
type ActivityRepo interface {
	// Create assigns an id and created_at and appends the activity.
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// CreateBatch appends many activities in one collection write, so a
	// generated itinerary is stored entirely or not at all.
	CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error)

	// GetByID returns domain.ErrNotFound if no activity has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// ListByTrip returns the trip's activities in storage order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	// Update applies fn to a copy of the stored activity and saves it.
	// Returns domain.ErrNotFound if no activity has that ID.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.Activity) error) (domain.Activity, error)
}

type kvActivityRepo struct {
	c    collection[domain.Activity]
	opts Options
}

// NewActivityRepo constructs an ActivityRepo stored in b.
func NewActivityRepo(b kv.Backend, opts Options) ActivityRepo {
	opts = opts.withDefaults()
	return &kvActivityRepo{c: newCollection[domain.Activity](b, keyActivities, opts.Logger), opts: opts}
}

func (r *kvActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	out, err := r.CreateBatch(ctx, []domain.Activity{a})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return out[0], nil
}

func (r *kvActivityRepo) CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error) {
	now := r.opts.Now()
	created := make([]domain.Activity, len(as))
	for i, a := range as {
		a.ID = uuid.New()
		a.CreatedAt = now
		created[i] = a
	}

	err := r.c.mutate(ctx, func(acts []domain.Activity) ([]domain.Activity, error) {
		return append(acts, created...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.CreateBatch: %w", err)
	}
	return created, nil
}

func (r *kvActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	acts, err := r.c.load(ctx)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	a, ok := find(acts, func(a domain.Activity) bool { return a.ID == id })
	if !ok {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (r *kvActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	acts, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: %w", err)
	}
	return filter(acts, func(a domain.Activity) bool { return a.TripID == tripID }), nil
}

func (r *kvActivityRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Activity) error) (domain.Activity, error) {
	var updated domain.Activity
	err := r.c.mutate(ctx, func(acts []domain.Activity) ([]domain.Activity, error) {
		i := indexOf(acts, func(a domain.Activity) bool { return a.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		a := acts[i]
		if err := fn(&a); err != nil {
			return nil, err
		}
		a.ID = acts[i].ID
		a.TripID = acts[i].TripID
		a.CreatedAt = acts[i].CreatedAt
		acts[i] = a
		updated = a
		return acts, nil
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", err)
	}
	return updated, nil
}
