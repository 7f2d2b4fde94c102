package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

// ActivityService implements business logic for trip activities.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

// Create validates the activity, verifies the parent trip exists, then
// persists it. Status defaults to proposed and source to manual.
// Returns domain.ErrValidation or domain.ErrNotFound.
func (s *ActivityService) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if _, err := s.trips.GetByID(ctx, a.TripID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	if a.Status == "" {
		a.Status = domain.ActivityProposed
	}
	if a.Source == "" {
		a.Source = domain.SourceManual
	}
	a.Title = strings.TrimSpace(a.Title)
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}

	created, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return created, nil
}

// Get returns one activity by ID.
func (s *ActivityService) Get(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	return a, nil
}

// List returns the trip's activities in storage order. Always non-nil.
func (s *ActivityService) List(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	acts, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	if acts == nil {
		return []domain.Activity{}, nil
	}
	return acts, nil
}

// Update applies patch to the stored activity, validating the merged
// result inside the write.
func (s *ActivityService) Update(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	updated, err := s.activities.Update(ctx, id, func(a *domain.Activity) error {
		patch.Apply(a)
		a.Title = strings.TrimSpace(a.Title)
		return validateActivity(*a)
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	return updated, nil
}

func validateActivity(a domain.Activity) error {
	if a.Title == "" {
		return invalid("title is required")
	}
	if !a.Status.IsValid() {
		return invalid("unknown status %q", a.Status)
	}
	if !a.Source.IsValid() {
		return invalid("unknown source %q", a.Source)
	}
	if a.StartTime != nil && a.EndTime != nil && a.EndTime.Before(*a.StartTime) {
		return invalid("end_time must not be before start_time")
	}
	if a.CostCents != nil && *a.CostCents < 0 {
		return invalid("cost must not be negative")
	}
	if a.Lat != nil && (*a.Lat < -90 || *a.Lat > 90) {
		return invalid("lat out of range")
	}
	if a.Lon != nil && (*a.Lon < -180 || *a.Lon > 180) {
		return invalid("lon out of range")
	}
	return nil
}
