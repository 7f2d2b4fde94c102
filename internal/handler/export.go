package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/wanderly/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_title", "trip_destination", "trip_start_date", "trip_end_date",
	"activity_id", "itinerary_day", "title", "category", "start_time", "end_time",
	"cost", "status", "source", "up_votes", "down_votes",
}

// exportRow is the JSON form of domain.ActivityExportRow.
type exportRow struct {
	TripID          string                `json:"trip_id"`
	TripTitle       string                `json:"trip_title"`
	TripDestination string                `json:"trip_destination"`
	TripStartDate   string                `json:"trip_start_date"`
	TripEndDate     string                `json:"trip_end_date"`
	ActivityID      string                `json:"activity_id"`
	ItineraryDay    string                `json:"itinerary_day,omitempty"`
	Title           string                `json:"title"`
	Category        string                `json:"category,omitempty"`
	StartTime       *time.Time            `json:"start_time,omitempty"`
	EndTime         *time.Time            `json:"end_time,omitempty"`
	CostCents       *int64                `json:"cost_cents,omitempty"`
	Status          domain.ActivityStatus `json:"status"`
	Source          domain.ActivitySource `json:"source"`
	UpVotes         int                   `json:"up_votes"`
	DownVotes       int                   `json:"down_votes"`
}

// ExportTrip implements GET /trips/{tripID}/export.
// It returns one row per activity with its vote tally.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		s.respondError(w, r, fieldErrorf("format must be json or csv"), "trip")
		return
	}
	rows, err := s.export.Export(r.Context(), trip.ID)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}

	if format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.csv"`, trip.ID))
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}

	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// buildCSV encodes rows as CSV with a header line.
func buildCSV(rows []domain.ActivityExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

// rowToCSVRecord encodes one row. Nil times and costs become empty cells;
// costs are written in major units with two decimals.
func rowToCSVRecord(r domain.ActivityExportRow) []string {
	cost := ""
	if r.CostCents != nil {
		cost = decimal.New(*r.CostCents, -2).StringFixed(2)
	}
	return []string{
		r.TripID,
		r.TripTitle,
		r.TripDestination,
		r.TripStartDate,
		r.TripEndDate,
		r.ActivityID,
		r.ItineraryDay,
		r.Title,
		r.Category,
		formatOptionalTime(r.StartTime),
		formatOptionalTime(r.EndTime),
		cost,
		string(r.Status),
		string(r.Source),
		strconv.Itoa(r.UpVotes),
		strconv.Itoa(r.DownVotes),
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
