package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityStatus tracks group consensus on a proposed activity.
type ActivityStatus string

const (
	ActivityProposed  ActivityStatus = "proposed"
	ActivityConfirmed ActivityStatus = "confirmed"
	ActivityRejected  ActivityStatus = "rejected"
)

// IsValid reports whether s is one of the known statuses.
func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityProposed, ActivityConfirmed, ActivityRejected:
		return true
	}
	return false
}

// ActivitySource records how an activity entered the trip.
type ActivitySource string

const (
	SourceManual ActivitySource = "manual"
	SourceAI     ActivitySource = "ai"
	SourceImport ActivitySource = "import"
)

// IsValid reports whether s is one of the known sources.
func (s ActivitySource) IsValid() bool {
	switch s {
	case SourceManual, SourceAI, SourceImport:
		return true
	}
	return false
}

// Activity is a single scheduled or proposed item within a trip.
// StartTime and EndTime are optional; when both are set, StartTime <= EndTime.
type Activity struct {
	ID             uuid.UUID      `json:"id"`
	TripID         uuid.UUID      `json:"trip_id"`
	ItineraryDayID string         `json:"itinerary_day_id,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	StartTime      *time.Time     `json:"start_time,omitempty"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	CostCents      *int64         `json:"cost_cents,omitempty"`
	Lat            *float64       `json:"lat,omitempty"`
	Lon            *float64       `json:"lon,omitempty"`
	Status         ActivityStatus `json:"status"`
	Source         ActivitySource `json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
}

// ActivityPatch carries a partial update. Nil fields are left unchanged.
type ActivityPatch struct {
	Title       *string
	Description *string
	Category    *string
	StartTime   *time.Time
	EndTime     *time.Time
	CostCents   *int64
	Lat         *float64
	Lon         *float64
	Status      *ActivityStatus
}

// Apply merges the non-nil fields of p over a.
func (p ActivityPatch) Apply(a *Activity) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.StartTime != nil {
		st := *p.StartTime
		a.StartTime = &st
	}
	if p.EndTime != nil {
		et := *p.EndTime
		a.EndTime = &et
	}
	if p.CostCents != nil {
		c := *p.CostCents
		a.CostCents = &c
	}
	if p.Lat != nil {
		lat := *p.Lat
		a.Lat = &lat
	}
	if p.Lon != nil {
		lon := *p.Lon
		a.Lon = &lon
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}
