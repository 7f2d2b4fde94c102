package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/repo"
)

// ExportService assembles a flat export of a trip's activities and votes.
type ExportService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
	votes      repo.VoteRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, activities repo.ActivityRepo, votes repo.VoteRepo) *ExportService {
	return &ExportService{trips: trips, activities: activities, votes: votes}
}

// Export returns one ActivityExportRow per activity of the trip, in storage
// order, each carrying its vote tally. A trip without activities yields an
// empty, non-nil slice. Returns domain.ErrNotFound for an unknown trip.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	acts, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ActivityExportRow, 0, len(acts))
	for _, a := range acts {
		votes, err := s.votes.ListByActivity(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		tally := domain.TallyVotes(votes)
		rows = append(rows, domain.ActivityExportRow{
			TripID:          trip.ID.String(),
			TripTitle:       trip.Title,
			TripDestination: trip.DestinationText,
			TripStartDate:   trip.StartDate.Format(time.DateOnly),
			TripEndDate:     trip.EndDate.Format(time.DateOnly),
			ActivityID:      a.ID.String(),
			ItineraryDay:    a.ItineraryDayID,
			Title:           a.Title,
			Category:        a.Category,
			StartTime:       a.StartTime,
			EndTime:         a.EndTime,
			CostCents:       a.CostCents,
			Status:          a.Status,
			Source:          a.Source,
			UpVotes:         tally.Up,
			DownVotes:       tally.Down,
		})
	}
	return rows, nil
}
