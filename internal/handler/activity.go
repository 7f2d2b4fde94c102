package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
)

type createActivityRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"max=2000"`
	Category       string     `json:"category" validate:"max=50"`
	ItineraryDayID string     `json:"itinerary_day_id" validate:"omitempty,datetime=2006-01-02"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	CostCents      *int64     `json:"cost_cents" validate:"omitempty,gte=0"`
	Lat            *float64   `json:"lat" validate:"omitempty,latitude"`
	Lon            *float64   `json:"lon" validate:"omitempty,longitude"`
	Status         string     `json:"status" validate:"omitempty,oneof=proposed confirmed rejected"`
	Source         string     `json:"source" validate:"omitempty,oneof=manual import"`
}

type updateActivityRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Category    *string    `json:"category" validate:"omitempty,max=50"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CostCents   *int64     `json:"cost_cents" validate:"omitempty,gte=0"`
	Lat         *float64   `json:"lat" validate:"omitempty,latitude"`
	Lon         *float64   `json:"lon" validate:"omitempty,longitude"`
	Status      *string    `json:"status" validate:"omitempty,oneof=proposed confirmed rejected"`
}

// ListActivities implements GET /trips/{tripID}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	acts, err := s.activities.List(r.Context(), trip.ID)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, acts)
}

// CreateActivity implements POST /trips/{tripID}/activities.
// New activities start as proposed and manual unless the body says otherwise.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	var body createActivityRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	a, err := s.activities.Create(r.Context(), domain.Activity{
		TripID:         trip.ID,
		ItineraryDayID: body.ItineraryDayID,
		Title:          body.Title,
		Description:    body.Description,
		Category:       body.Category,
		StartTime:      body.StartTime,
		EndTime:        body.EndTime,
		CostCents:      body.CostCents,
		Lat:            body.Lat,
		Lon:            body.Lon,
		Status:         domain.ActivityStatus(body.Status),
		Source:         domain.ActivitySource(body.Source),
	})
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateActivity implements PATCH /activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.memberActivity(r)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	var body updateActivityRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	patch := domain.ActivityPatch{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		CostCents:   body.CostCents,
		Lat:         body.Lat,
		Lon:         body.Lon,
	}
	if body.Status != nil {
		st := domain.ActivityStatus(*body.Status)
		patch.Status = &st
	}
	updated, err := s.activities.Update(r.Context(), a.ID, patch)
	if err != nil {
		s.respondError(w, r, err, "activity")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// memberActivity loads the activity named by {activityID} and checks that
// the caller belongs to its trip.
func (s *Server) memberActivity(r *http.Request) (domain.Activity, error) {
	uid, err := callerID(r)
	if err != nil {
		return domain.Activity{}, err
	}
	id, err := pathID(r, "activityID")
	if err != nil {
		return domain.Activity{}, err
	}
	a, err := s.activities.Get(r.Context(), id)
	if err != nil {
		return domain.Activity{}, err
	}
	if err := s.requireMember(r.Context(), a.TripID, uid); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}
