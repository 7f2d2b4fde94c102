package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

// VoteService records up/down votes on activities.
type VoteService struct {
	activities repo.ActivityRepo
	votes      repo.VoteRepo
}

// NewVoteService constructs a VoteService.
func NewVoteService(activities repo.ActivityRepo, votes repo.VoteRepo) *VoteService {
	return &VoteService{activities: activities, votes: votes}
}

// Vote records userID's choice on activityID, replacing any earlier vote
// by the same user.
func (s *VoteService) Vote(ctx context.Context, activityID, userID uuid.UUID, choice domain.VoteChoice) (domain.Vote, error) {
	if !choice.IsValid() {
		return domain.Vote{}, invalid("choice must be up or down")
	}
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return domain.Vote{}, fmt.Errorf("service.VoteService.Vote: %w", err)
	}
	v, err := s.votes.Upsert(ctx, domain.Vote{ActivityID: activityID, UserID: userID, Choice: choice})
	if err != nil {
		return domain.Vote{}, fmt.Errorf("service.VoteService.Vote: %w", err)
	}
	return v, nil
}

// List returns the votes on an activity. Always non-nil.
func (s *VoteService) List(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error) {
	votes, err := s.votes.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("service.VoteService.List: %w", err)
	}
	if votes == nil {
		return []domain.Vote{}, nil
	}
	return votes, nil
}

// Tally counts the votes on an activity.
func (s *VoteService) Tally(ctx context.Context, activityID uuid.UUID) (domain.VoteTally, error) {
	votes, err := s.List(ctx, activityID)
	if err != nil {
		return domain.VoteTally{}, fmt.Errorf("service.VoteService.Tally: %w", err)
	}
	return domain.TallyVotes(votes), nil
}
