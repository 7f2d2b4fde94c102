package repo

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
)

// VoteRepo defines the persistence operations for Votes.
type VoteRepo interface {
	// Upsert replaces the user's existing vote on the activity, if any, with v.
	// Removal and insertion happen in one collection write.
	Upsert(ctx context.Context, v domain.Vote) (domain.Vote, error)

	// ListByActivity returns the activity's votes in storage order.
	ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error)
}

type kvVoteRepo struct {
	c    collection[domain.Vote]
	opts Options
}

// NewVoteRepo constructs a VoteRepo stored in b.
func NewVoteRepo(b kv.Backend, opts Options) VoteRepo {
	opts = opts.withDefaults()
	return &kvVoteRepo{c: newCollection[domain.Vote](b, keyVotes, opts.Logger), opts: opts}
}

func (r *kvVoteRepo) Upsert(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	v.ID = uuid.New()
	v.CreatedAt = r.opts.Now()

	err := r.c.mutate(ctx, func(votes []domain.Vote) ([]domain.Vote, error) {
		votes = slices.DeleteFunc(votes, func(x domain.Vote) bool {
			return x.ActivityID == v.ActivityID && x.UserID == v.UserID
		})
		return append(votes, v), nil
	})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("repo.VoteRepo.Upsert: %w", err)
	}
	return v, nil
}

func (r *kvVoteRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error) {
	votes, err := r.c.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.VoteRepo.ListByActivity: %w", err)
	}
	return filter(votes, func(v domain.Vote) bool { return v.ActivityID == activityID }), nil
}
