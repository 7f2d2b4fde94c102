package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/wanderly/internal/domain"
)

// tripResponse is the wire form of a trip. Dates travel as YYYY-MM-DD.
type tripResponse struct {
	ID              uuid.UUID          `json:"id"`
	OwnerID         uuid.UUID          `json:"owner_id"`
	Title           string             `json:"title"`
	DestinationText string             `json:"destination_text"`
	StartDate       openapi_types.Date `json:"start_date"`
	EndDate         openapi_types.Date `json:"end_date"`
	Status          domain.TripStatus  `json:"status"`
	BudgetCents     *int64             `json:"budget_cents,omitempty"`
	Currency        string             `json:"currency,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type createTripRequest struct {
	Title           string             `json:"title" validate:"required,max=200"`
	DestinationText string             `json:"destination_text" validate:"required,max=200"`
	StartDate       openapi_types.Date `json:"start_date" validate:"required"`
	EndDate         openapi_types.Date `json:"end_date" validate:"required"`
	Status          string             `json:"status" validate:"omitempty,oneof=planned locked archived"`
	BudgetCents     *int64             `json:"budget_cents" validate:"omitempty,gte=0"`
	Currency        string             `json:"currency" validate:"omitempty,len=3,alpha"`
}

type updateTripRequest struct {
	Title           *string             `json:"title" validate:"omitempty,max=200"`
	DestinationText *string             `json:"destination_text" validate:"omitempty,max=200"`
	StartDate       *openapi_types.Date `json:"start_date"`
	EndDate         *openapi_types.Date `json:"end_date"`
	Status          *string             `json:"status" validate:"omitempty,oneof=planned locked archived"`
	BudgetCents     *int64              `json:"budget_cents" validate:"omitempty,gte=0"`
	Currency        *string             `json:"currency" validate:"omitempty,len=3,alpha"`
}

// ListTrips implements GET /trips.
// Returns one page of the trips the caller belongs to.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	p, err := paginationParams(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	trips, err := s.trips.ListForUser(r.Context(), uid)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	writeJSON(w, http.StatusOK, paginate(out, p))
}

// CreateTrip implements POST /trips. The caller becomes the owner.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body createTripRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	trip, err := s.trips.Create(r.Context(), domain.Trip{
		OwnerID:         uid,
		Title:           body.Title,
		DestinationText: body.DestinationText,
		StartDate:       body.StartDate.Time,
		EndDate:         body.EndDate.Time,
		Status:          domain.TripStatus(body.Status),
		BudgetCents:     body.BudgetCents,
		Currency:        body.Currency,
	})
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

// GetTrip implements GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// UpdateTrip implements PATCH /trips/{tripID}.
// Only the fields present in the body change.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body updateTripRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	patch := domain.TripPatch{
		Title:           body.Title,
		DestinationText: body.DestinationText,
		BudgetCents:     body.BudgetCents,
		Currency:        body.Currency,
	}
	if body.StartDate != nil {
		patch.StartDate = &body.StartDate.Time
	}
	if body.EndDate != nil {
		patch.EndDate = &body.EndDate.Time
	}
	if body.Status != nil {
		st := domain.TripStatus(*body.Status)
		patch.Status = &st
	}
	updated, err := s.trips.Update(r.Context(), trip.ID, patch)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(updated))
}

// memberTrip loads the trip named by {tripID} and checks that the caller
// belongs to it. Non-members get domain.ErrNotFound so that trip IDs do not
// leak across accounts.
func (s *Server) memberTrip(r *http.Request) (domain.Trip, error) {
	uid, err := callerID(r)
	if err != nil {
		return domain.Trip{}, err
	}
	tripID, err := pathID(r, "tripID")
	if err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.trips.GetByID(r.Context(), tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.requireMember(r.Context(), trip.ID, uid); err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

func (s *Server) requireMember(ctx context.Context, tripID, userID uuid.UUID) error {
	members, err := s.members.List(ctx, tripID)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(members, func(m domain.TripMember) bool { return m.UserID == userID }) {
		return domain.ErrNotFound
	}
	return nil
}

func toTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		Title:           t.Title,
		DestinationText: t.DestinationText,
		StartDate:       openapi_types.Date{Time: t.StartDate},
		EndDate:         openapi_types.Date{Time: t.EndDate},
		Status:          t.Status,
		BudgetCents:     t.BudgetCents,
		Currency:        t.Currency,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
