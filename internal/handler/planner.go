package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/wanderly/internal/domain"
)

// itineraryRequest is the body of POST /itineraries and POST /trips/plan.
type itineraryRequest struct {
	Destination         string             `json:"destination" validate:"required,max=200"`
	StartDate           openapi_types.Date `json:"start_date" validate:"required"`
	EndDate             openapi_types.Date `json:"end_date" validate:"required"`
	GroupSize           int                `json:"group_size" validate:"gte=0,lte=50"`
	Pace                string             `json:"pace" validate:"omitempty,oneof=relaxed balanced packed"`
	Budget              *float64           `json:"budget" validate:"omitempty,gte=0"`
	Currency            string             `json:"currency" validate:"omitempty,len=3,alpha"`
	Interests           []string           `json:"interests" validate:"max=20,dive,max=50"`
	DietaryRestrictions []string           `json:"dietary_restrictions" validate:"max=20,dive,max=50"`
	Accessibility       []string           `json:"accessibility" validate:"max=20,dive,max=50"`
}

func (b itineraryRequest) toDomain() domain.ItineraryRequest {
	return domain.ItineraryRequest{
		Destination:   b.Destination,
		StartDate:     b.StartDate.Time,
		EndDate:       b.EndDate.Time,
		GroupSize:     b.GroupSize,
		Pace:          domain.Pace(b.Pace),
		Budget:        b.Budget,
		Currency:      b.Currency,
		Interests:     b.Interests,
		Dietary:       b.DietaryRestrictions,
		Accessibility: b.Accessibility,
	}
}

type planResponse struct {
	Trip       tripResponse      `json:"trip"`
	Itinerary  domain.Itinerary  `json:"itinerary"`
	Activities []domain.Activity `json:"activities"`
}

// PlanTrip implements POST /trips/plan.
// Generates an itinerary, stores it as a new trip owned by the caller and
// returns 201 with the trip, the itinerary and the created activities.
func (s *Server) PlanTrip(w http.ResponseWriter, r *http.Request) {
	uid, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body itineraryRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	res, err := s.planner.Plan(r.Context(), uid, body.toDomain())
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	acts := res.Activities
	if acts == nil {
		acts = []domain.Activity{}
	}
	writeJSON(w, http.StatusCreated, planResponse{
		Trip:       toTripResponse(res.Trip),
		Itinerary:  res.Itinerary,
		Activities: acts,
	})
}

// PreviewItinerary implements POST /itineraries.
// Nothing is stored; the response carries Source "ai" or "fallback".
func (s *Server) PreviewItinerary(w http.ResponseWriter, r *http.Request) {
	var body itineraryRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "itinerary")
		return
	}
	it, err := s.planner.Preview(r.Context(), body.toDomain())
	if err != nil {
		s.respondError(w, r, err, "itinerary")
		return
	}
	writeJSON(w, http.StatusOK, it)
}
