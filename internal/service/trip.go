package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

// TripService implements business logic for Trip operations.
// It holds the members repo as well because a trip and its owner
// membership are created together.
type TripService struct {
	trips   repo.TripRepo
	members repo.MemberRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, members repo.MemberRepo) *TripService {
	return &TripService{trips: trips, members: members}
}

// Create validates and persists a new trip, then records its owner as a
// member with RoleOwner. If the membership cannot be written the trip is
// deleted again, so callers never see an ownerless trip.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip = normalizeTrip(trip)
	if trip.Status == "" {
		trip.Status = domain.TripPlanned
	}
	if trip.OwnerID == uuid.Nil {
		return domain.Trip{}, invalid("owner is required")
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	_, err = s.members.Create(ctx, domain.TripMember{
		TripID: created.ID,
		UserID: created.OwnerID,
		Role:   domain.RoleOwner,
	})
	if err != nil {
		if delErr := s.trips.Delete(ctx, created.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("compensating trip delete: %w", delErr))
		}
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListForUser returns every trip the user is a member of, in storage order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	memberships, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if len(memberships) == 0 {
		return []domain.Trip{}, nil
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TripID)
	}
	trips, err := s.trips.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update applies patch to the stored trip. The merged trip is validated
// inside the write, so a rejected patch leaves the stored trip untouched.
// Returns domain.ErrValidation or domain.ErrNotFound.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	updated, err := s.trips.Update(ctx, id, func(t *domain.Trip) error {
		patch.Apply(t)
		*t = normalizeTrip(*t)
		return validateTrip(*t)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Title = strings.TrimSpace(t.Title)
	t.DestinationText = strings.TrimSpace(t.DestinationText)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	return t
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title and destination must be non-empty.
//   - Both dates are required, EndDate must not be before StartDate and the
//     trip spans at most domain.MaxTripDays.
//   - Status must be a known value.
//   - A budget must not be negative and needs a three-letter currency.
func validateTrip(t domain.Trip) error {
	if t.Title == "" {
		return invalid("title is required")
	}
	if t.DestinationText == "" {
		return invalid("destination is required")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return invalid("start_date and end_date are required")
	}
	if t.EndDate.Before(t.StartDate) {
		return invalid("end_date must not be before start_date")
	}
	if domain.DaySpan(t.StartDate, t.EndDate) > domain.MaxTripDays {
		return invalid("trip must not span more than %d days", domain.MaxTripDays)
	}
	if !t.Status.IsValid() {
		return invalid("unknown status %q", t.Status)
	}
	if t.Currency != "" && !domain.ValidCurrency(t.Currency) {
		return invalid("currency must be a three-letter code")
	}
	if t.BudgetCents != nil {
		if *t.BudgetCents < 0 {
			return invalid("budget must not be negative")
		}
		if t.Currency == "" {
			return invalid("currency is required with a budget")
		}
	}
	return nil
}
