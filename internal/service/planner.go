package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/itinerary"
	"github.com/pkordes/wanderly/internal/repo"
)

// ItineraryGenerator produces a day-by-day plan for a request.
// *itinerary.Generator satisfies it.
type ItineraryGenerator interface {
	Generate(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
}

// PlanResult is everything a planning run creates.
type PlanResult struct {
	Trip       domain.Trip       `json:"trip"`
	Itinerary  domain.Itinerary  `json:"itinerary"`
	Activities []domain.Activity `json:"activities"`
}

// PlannerService turns a generated itinerary into a stored trip with
// proposed activities.
type PlannerService struct {
	trips      *TripService
	activities repo.ActivityRepo
	generator  ItineraryGenerator
}

// NewPlannerService constructs a PlannerService.
func NewPlannerService(trips *TripService, activities repo.ActivityRepo, gen ItineraryGenerator) *PlannerService {
	return &PlannerService{trips: trips, activities: activities, generator: gen}
}

// Preview generates an itinerary without writing anything.
func (s *PlannerService) Preview(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	it, err := s.generator.Generate(ctx, req)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.PlannerService.Preview: %w", err)
	}
	return it, nil
}

// Plan generates an itinerary for req, creates a trip owned by ownerID and
// stores every planned activity as a proposed, AI-sourced activity in one
// batch. A failed batch leaves the trip in place without activities.
func (s *PlannerService) Plan(ctx context.Context, ownerID uuid.UUID, req domain.ItineraryRequest) (PlanResult, error) {
	req, err := itinerary.NormalizeRequest(req)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}

	it, err := s.generator.Generate(ctx, req)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}

	trip := domain.Trip{
		OwnerID:         ownerID,
		Title:           req.Destination + " Adventure",
		DestinationText: req.Destination,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          domain.TripPlanned,
		Currency:        req.Currency,
	}
	if req.Budget != nil {
		cents := ToMinorUnits(*req.Budget)
		trip.BudgetCents = &cents
	}
	trip, err = s.trips.Create(ctx, trip)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}

	acts, err := ToActivities(trip.ID, it)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}
	stored, err := s.activities.CreateBatch(ctx, acts)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.PlannerService.Plan: %w", err)
	}
	if stored == nil {
		stored = []domain.Activity{}
	}
	return PlanResult{Trip: trip, Itinerary: it, Activities: stored}, nil
}

// ToActivities converts every planned activity of it into an unsaved
// Activity on tripID. Times are the day's date plus the HH:MM clock in UTC.
func ToActivities(tripID uuid.UUID, it domain.Itinerary) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, day := range it.Days {
		date, err := time.Parse(time.DateOnly, day.Date)
		if err != nil {
			return nil, fmt.Errorf("day %d date %q: %w", day.DayIndex, day.Date, err)
		}
		for _, pa := range day.Activities {
			a := domain.Activity{
				TripID:         tripID,
				ItineraryDayID: day.Date,
				Title:          pa.Title,
				Description:    pa.Description,
				Category:       pa.Category,
				Status:         domain.ActivityProposed,
				Source:         domain.SourceAI,
			}
			if a.StartTime, err = atClock(date, pa.StartTime); err != nil {
				return nil, err
			}
			if a.EndTime, err = atClock(date, pa.EndTime); err != nil {
				return nil, err
			}
			cost := ToMinorUnits(pa.EstimatedCost)
			a.CostCents = &cost
			if pa.Location != nil {
				a.Lat = pa.Location.Lat
				a.Lon = pa.Location.Lon
			}
			out = append(out, a)
		}
	}
	return out, nil
}

// ToMinorUnits converts a major-unit amount to minor units, rounding half
// away from zero.
func ToMinorUnits(major float64) int64 {
	return decimal.NewFromFloat(major).Shift(2).Round(0).IntPart()
}

var errClock = errors.New("clock must be HH:MM")

func atClock(date time.Time, hhmm string) (*time.Time, error) {
	if hhmm == "" {
		return nil, nil
	}
	c, err := time.Parse("15:04", hhmm)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", hhmm, errClock)
	}
	t := time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, time.UTC)
	return &t, nil
}
