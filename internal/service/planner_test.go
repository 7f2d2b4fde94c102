package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/itinerary"
	"github.com/pkordes/wanderly/internal/service"
)

func planRequest() domain.ItineraryRequest {
	budget := 1200.0
	return domain.ItineraryRequest{
		Destination: "Lisbon",
		StartDate:   june1,
		EndDate:     june3,
		GroupSize:   2,
		Budget:      &budget,
		Currency:    "eur",
	}
}

func fixedItinerary() domain.Itinerary {
	lat, lon := 38.6916, -9.2160
	return domain.Itinerary{
		Title:       "Lisbon in Two Days",
		Source:      "ai",
		Destination: "Lisbon",
		Days: []domain.ItineraryDay{
			{Date: "2025-06-01", DayIndex: 1, Activities: []domain.PlannedActivity{
				{Title: "Belém Tower", Category: "culture", StartTime: "09:30", EndTime: "11:00", EstimatedCost: 12.5,
					Location: &domain.Location{Lat: &lat, Lon: &lon, Address: "Av. Brasília"}},
			}},
			{Date: "2025-06-02", DayIndex: 2, Activities: []domain.PlannedActivity{
				{Title: "Pastéis", Category: "food", StartTime: "08:00", EndTime: "08:45", EstimatedCost: 0.125},
				{Title: "Sunset", Category: "nature", StartTime: "20:00", EndTime: "21:00"},
			}},
		},
	}
}

func TestPlannerService_Plan(t *testing.T) {
	store := newMemoryStore(t)
	owner := uuid.New()
	var seen domain.ItineraryRequest
	gen := &mockGenerator{generate: func(_ context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
		seen = req
		return fixedItinerary(), nil
	}}
	svc := service.NewPlannerService(service.NewTripService(store.Trips, store.Members), store.Activities, gen)

	res, err := svc.Plan(context.Background(), owner, planRequest())
	require.NoError(t, err)

	assert.Equal(t, "EUR", seen.Currency, "request is normalized before generation")
	assert.Equal(t, "Lisbon Adventure", res.Trip.Title)
	assert.Equal(t, domain.TripPlanned, res.Trip.Status)
	require.NotNil(t, res.Trip.BudgetCents)
	assert.Equal(t, int64(120000), *res.Trip.BudgetCents)
	assert.Equal(t, "EUR", res.Trip.Currency)

	require.Len(t, res.Activities, 3)
	first := res.Activities[0]
	assert.Equal(t, res.Trip.ID, first.TripID)
	assert.Equal(t, "2025-06-01", first.ItineraryDayID)
	assert.Equal(t, domain.ActivityProposed, first.Status)
	assert.Equal(t, domain.SourceAI, first.Source)
	require.NotNil(t, first.StartTime)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), *first.StartTime)
	assert.Equal(t, time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), *first.EndTime)
	assert.Equal(t, int64(1250), *first.CostCents)
	assert.InDelta(t, 38.6916, *first.Lat, 1e-9)
	assert.Equal(t, int64(13), *res.Activities[1].CostCents, "half rounds away from zero")
	assert.Equal(t, int64(0), *res.Activities[2].CostCents)

	members, err := store.Members.ListByTrip(context.Background(), res.Trip.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner, members[0].UserID)

	stored, err := store.Activities.ListByTrip(context.Background(), res.Trip.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestPlannerService_Plan_WithTemplateGenerator(t *testing.T) {
	store := newMemoryStore(t)
	gen := itinerary.NewGenerator(nil, nil, nil)
	svc := service.NewPlannerService(service.NewTripService(store.Trips, store.Members), store.Activities, gen)

	req := planRequest()
	req.EndDate = req.StartDate
	res, err := svc.Plan(context.Background(), uuid.New(), req)

	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Itinerary.Source)
	require.Len(t, res.Itinerary.Days, 1)
	assert.Len(t, res.Activities, len(res.Itinerary.Days[0].Activities))
}

func TestPlannerService_Plan_InvalidRequestWritesNothing(t *testing.T) {
	trips := &mockTripRepo{create: func(context.Context, domain.Trip) (domain.Trip, error) {
		t.Fatal("trip must not be created")
		return domain.Trip{}, nil
	}}
	gen := &mockGenerator{generate: func(context.Context, domain.ItineraryRequest) (domain.Itinerary, error) {
		t.Fatal("generator must not be called")
		return domain.Itinerary{}, nil
	}}
	svc := service.NewPlannerService(service.NewTripService(trips, acceptMembers()), &mockActivityRepo{}, gen)

	req := planRequest()
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	_, err := svc.Plan(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlannerService_Plan_BatchFailure(t *testing.T) {
	boom := errors.New("write failed")
	store := newMemoryStore(t)
	gen := &mockGenerator{generate: func(context.Context, domain.ItineraryRequest) (domain.Itinerary, error) {
		return fixedItinerary(), nil
	}}
	acts := &mockActivityRepo{createBatch: func(context.Context, []domain.Activity) ([]domain.Activity, error) {
		return nil, boom
	}}
	svc := service.NewPlannerService(service.NewTripService(store.Trips, store.Members), acts, gen)

	_, err := svc.Plan(context.Background(), uuid.New(), planRequest())

	assert.ErrorIs(t, err, boom)
}

func TestPlannerService_Preview(t *testing.T) {
	svc := service.NewPlannerService(nil, nil, itinerary.NewGenerator(nil, nil, nil))

	it, err := svc.Preview(context.Background(), planRequest())

	require.NoError(t, err)
	assert.Equal(t, "3-Day Lisbon Adventure", it.Title)
}

func TestToActivities_BadClock(t *testing.T) {
	it := fixedItinerary()
	it.Days[0].Activities[0].StartTime = "9.30am"

	_, err := service.ToActivities(uuid.New(), it)

	assert.Error(t, err)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1250), service.ToMinorUnits(12.5))
	assert.Equal(t, int64(1999), service.ToMinorUnits(19.99))
	assert.Equal(t, int64(-13), service.ToMinorUnits(-0.125))
	assert.Equal(t, int64(0), service.ToMinorUnits(0))
}
