package domain

import "time"

// Pace controls how densely a generated itinerary is packed.
type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceBalanced Pace = "balanced"
	PacePacked   Pace = "packed"
)

// IsValid reports whether p is one of the known paces.
func (p Pace) IsValid() bool {
	switch p {
	case PaceRelaxed, PaceBalanced, PacePacked:
		return true
	}
	return false
}

// ItineraryRequest is the input to itinerary generation.
// StartDate <= EndDate is guaranteed by the caller.
type ItineraryRequest struct {
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	GroupSize     int
	Pace          Pace
	Budget        *float64 // major currency units
	Currency      string
	Interests     []string
	Dietary       []string
	Accessibility []string
}

// Itinerary is a day-by-day plan. len(Days) always equals the inclusive
// day span of the request.
type Itinerary struct {
	Title       string         `json:"title"`
	Source      string         `json:"source"` // "ai" or "fallback"
	Destination string         `json:"destination"`
	Days        []ItineraryDay `json:"days"`
}

// ItineraryDay holds the activities for one calendar day, in order.
type ItineraryDay struct {
	Date       string            `json:"date"` // YYYY-MM-DD
	DayIndex   int               `json:"dayIndex"`
	Activities []PlannedActivity `json:"activities"`
}

// PlannedActivity is one generated activity. Times are local HH:MM strings
// on the day's date; EstimatedCost is in major currency units.
type PlannedActivity struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	EstimatedCost float64   `json:"estimatedCost"`
	Location      *Location `json:"location,omitempty"`
}

// Location is an optional place attached to a planned activity.
// Coordinates are optional on their own.
type Location struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
	Address string   `json:"address,omitempty"`
}
