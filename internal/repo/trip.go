package repo

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create assigns an id, created_at and updated_at, appends the trip and
	// returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByIDs returns the trips whose IDs are in ids, in storage order.
	// Unknown IDs are ignored.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error)

	// Update applies fn to a copy of the stored trip and saves the result,
	// re-stamping updated_at. An error from fn aborts the write and is
	// returned wrapped. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error)

	// Delete removes a trip. Only used to compensate a failed trip creation.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// kvTripRepo is the kv.Backend implementation of TripRepo.
type kvTripRepo struct {
	c    collection[domain.Trip]
	opts Options
}

// NewTripRepo constructs a TripRepo stored in b.
func NewTripRepo(b kv.Backend, opts Options) TripRepo {
	opts = opts.withDefaults()
	return &kvTripRepo{c: newCollection[domain.Trip](b, keyTrips, opts.Logger), opts: opts}
}

// Create appends a new trip and returns the full persisted record.
func (r *kvTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	now := r.opts.Now()
	trip.ID = uuid.New()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	err := r.c.mutate(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		return append(trips, trip), nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip, nil
}

// GetByID retrieves a trip by ID.
func (r *kvTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trips, err := r.c.load(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	t, ok := find(trips, func(t domain.Trip) bool { return t.ID == id })
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return t, nil
}

// ListByIDs returns the matching trips in storage order.
func (r *kvTripRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
	trips, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByIDs: %w", err)
	}
	return filter(trips, func(t domain.Trip) bool { return slices.Contains(ids, t.ID) }), nil
}

// Update mutates a trip in place inside one atomic collection write.
func (r *kvTripRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	var updated domain.Trip
	err := r.c.mutate(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		i := indexOf(trips, func(t domain.Trip) bool { return t.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		t := trips[i]
		if err := fn(&t); err != nil {
			return nil, err
		}
		// Identity and creation time are not editable.
		t.ID = trips[i].ID
		t.OwnerID = trips[i].OwnerID
		t.CreatedAt = trips[i].CreatedAt
		t.UpdatedAt = r.opts.Now()
		trips[i] = t
		updated = t
		return trips, nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by ID.
func (r *kvTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.c.mutate(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		i := indexOf(trips, func(t domain.Trip) bool { return t.ID == id })
		if i < 0 {
			return nil, domain.ErrNotFound
		}
		return slices.Delete(trips, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return nil
}
