package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// MemberRepo defines the persistence operations for TripMembers.
type MemberRepo interface {
	// Create assigns an id and joined_at and appends the member.
	// Returns domain.ErrConflict if the user is already a member of the trip.
	Create(ctx context.Context, m domain.TripMember) (domain.TripMember, error)

	// ListByTrip returns the trip's members in join order.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)

	// ListByUser returns every membership the user holds, in join order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripMember, error)
}

type kvMemberRepo struct {
	c    collection[domain.TripMember]
	opts Options
}

// NewMemberRepo constructs a MemberRepo stored in b.
func NewMemberRepo(b kv.Backend, opts Options) MemberRepo {
	opts = opts.withDefaults()
	return &kvMemberRepo{c: newCollection[domain.TripMember](b, keyMembers, opts.Logger), opts: opts}
}

func (r *kvMemberRepo) Create(ctx context.Context, m domain.TripMember) (domain.TripMember, error) {
	m.ID = uuid.New()
	m.JoinedAt = r.opts.Now()

	err := r.c.mutate(ctx, func(members []domain.TripMember) ([]domain.TripMember, error) {
		_, dup := find(members, func(x domain.TripMember) bool {
			return x.TripID == m.TripID && x.UserID == m.UserID
		})
		if dup {
			return nil, domain.ErrConflict
		}
		return append(members, m), nil
	})
	if err != nil {
		return domain.TripMember{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return m, nil
}

func (r *kvMemberRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	members, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: %w", err)
	}
	return filter(members, func(m domain.TripMember) bool { return m.TripID == tripID }), nil
}

func (r *kvMemberRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripMember, error) {
	members, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByUser: %w", err)
	}
	return filter(members, func(m domain.TripMember) bool { return m.UserID == userID }), nil
}
