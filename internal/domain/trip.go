// Package domain contains the core data types for the Wanderly application.
// This package has no storage or transport dependencies and is imported by
// every other internal package (repo, service, handler, itinerary).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle marker of a trip. Transitions between statuses
// are unconstrained.
type TripStatus string

const (
	TripPlanned  TripStatus = "planned"
	TripLocked   TripStatus = "locked"
	TripArchived TripStatus = "archived"
)

// IsValid reports whether s is one of the known statuses.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripPlanned, TripLocked, TripArchived:
		return true
	}
	return false
}

// Trip is a planned journey owned by one user.
// Members, activities and messages reference it by ID.
type Trip struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Title           string     `json:"title"`
	DestinationText string     `json:"destination_text"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Status          TripStatus `json:"status"`
	BudgetCents     *int64     `json:"budget_cents,omitempty"` // minor currency units
	Currency        string     `json:"currency,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TripPatch carries a partial update. Nil fields are left unchanged.
type TripPatch struct {
	Title           *string
	DestinationText *string
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *TripStatus
	BudgetCents     *int64
	Currency        *string
}

// Apply merges the non-nil fields of p over t.
func (p TripPatch) Apply(t *Trip) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.DestinationText != nil {
		t.DestinationText = *p.DestinationText
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.BudgetCents != nil {
		b := *p.BudgetCents
		t.BudgetCents = &b
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
}

// MaxTripDays is the longest trip, in calendar days, that can be planned.
const MaxTripDays = 365

const secondsPerDay = 24 * 60 * 60

// DaySpan returns the inclusive number of calendar days between start and end.
// A trip that starts and ends on the same day spans one day.
// It works on Unix seconds, so spans longer than time.Duration can hold
// are still exact.
func DaySpan(start, end time.Time) int {
	s := truncateDay(start).Unix()
	e := truncateDay(end).Unix()
	return int((e-s)/secondsPerDay) + 1
}

// ValidCurrency reports whether code is a three-letter uppercase code
// such as "EUR".
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
