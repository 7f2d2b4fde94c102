package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

// MemberService manages who belongs to a trip.
type MemberService struct {
	trips   repo.TripRepo
	users   repo.UserRepo
	members repo.MemberRepo
}

// NewMemberService constructs a MemberService.
func NewMemberService(trips repo.TripRepo, users repo.UserRepo, members repo.MemberRepo) *MemberService {
	return &MemberService{trips: trips, users: users, members: members}
}

// List returns the trip's members. Always non-nil.
func (s *MemberService) List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	members, err := s.members.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.MemberService.List: %w", err)
	}
	if members == nil {
		return []domain.TripMember{}, nil
	}
	return members, nil
}

// Add makes userID a member of tripID with role. The owner role is reserved
// for the trip creator. Returns domain.ErrNotFound when the trip or user is
// missing and domain.ErrConflict when the user is already a member.
func (s *MemberService) Add(ctx context.Context, tripID, userID uuid.UUID, role domain.MemberRole) (domain.TripMember, error) {
	if role == "" {
		role = domain.RoleViewer
	}
	if !role.IsValid() || role == domain.RoleOwner {
		return domain.TripMember{}, invalid("role %q cannot be assigned", role)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.TripMember{}, fmt.Errorf("service.MemberService.Add: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return domain.TripMember{}, fmt.Errorf("service.MemberService.Add: %w", err)
	}

	m, err := s.members.Create(ctx, domain.TripMember{TripID: tripID, UserID: userID, Role: role})
	if err != nil {
		return domain.TripMember{}, fmt.Errorf("service.MemberService.Add: %w", err)
	}
	return m, nil
}
