package domain

import "time"

// ActivityExportRow is a single row in a trip export.
// It is a flat, denormalized view: one row per activity, with trip fields
// repeated for every activity on that trip. Trips with no activities yield
// no rows.
type ActivityExportRow struct {
	// Trip fields, repeated for every activity on the trip.
	TripID          string
	TripTitle       string
	TripDestination string
	TripStartDate   string // "2006-01-02" formatted date
	TripEndDate     string // "2006-01-02" formatted date

	// Activity fields.
	ActivityID   string
	ItineraryDay string
	Title        string
	Category     string
	StartTime    *time.Time
	EndTime      *time.Time
	CostCents    *int64
	Status       ActivityStatus
	Source       ActivitySource

	// Votes on this activity.
	UpVotes   int
	DownVotes int
}
