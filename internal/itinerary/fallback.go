package itinerary

import (
	"fmt"
	"strings"

	"github.com/pkordes/wanderly/internal/domain"
)

// slot is one templated activity. Descriptions may contain a single %s
// that is replaced by the destination.
type slot struct {
	title, description, category string
	start, end                   string
	cost                         float64
}

var arrivalDay = []slot{
	{"Arrival and Hotel Check-in", "Arrive at %s and settle into your accommodation. Take time to freshen up and rest after your journey.", "logistics", "14:00", "16:00", 0},
	{"Welcome Dinner at Local Restaurant", "Experience authentic local cuisine at a highly-rated restaurant in the city center. Try signature dishes and meet your fellow travelers.", "food", "19:00", "21:00", 45},
	{"Evening City Walk", "Take a leisurely walk around the neighborhood to get oriented and discover local shops and cafes.", "exploration", "21:30", "23:00", 0},
}

var departureDay = []slot{
	{"Breakfast at Hotel", "Enjoy a final breakfast and prepare for checkout.", "food", "08:00", "09:00", 15},
	{"Last-Minute Souvenir Shopping", "Pick up any last-minute gifts and souvenirs at local markets or shops.", "shopping", "09:30", "11:30", 50},
	{"Hotel Checkout and Airport Transfer", "Check out of the hotel and head to the airport for your departure flight.", "logistics", "12:00", "14:00", 30},
}

var fullDay = []slot{
	{"Breakfast Café Experience", "Start your day at a charming local café with fresh pastries and coffee.", "food", "08:00", "09:00", 12},
	{"Historical Landmark Tour", "Explore one of %s's most iconic historical sites with a guided tour. Learn about the rich history and cultural significance.", "culture", "09:30", "12:30", 25},
	{"Lunch at Traditional Restaurant", "Savor regional specialties at a restaurant recommended by locals.", "food", "13:00", "14:30", 30},
	{"Afternoon Museum Visit", "Visit a world-class museum showcasing local art, history, or science exhibits.", "culture", "15:00", "17:30", 18},
	{"Sunset Viewpoint", "Watch the sunset from a scenic viewpoint with panoramic city views.", "nature", "18:00", "19:00", 0},
	{"Dinner and Evening Entertainment", "Enjoy dinner followed by local entertainment - music, dance, or theater performance.", "entertainment", "19:30", "22:00", 60},
}

// Fallback builds the template itinerary for a normalized request.
// The first day uses the arrival template, the last day the departure
// template and every day in between the full-day template. A single-day
// trip gets the arrival template only. Output depends on nothing but req.
func Fallback(req domain.ItineraryRequest) domain.Itinerary {
	n := domain.DaySpan(req.StartDate, req.EndDate)
	days := make([]domain.ItineraryDay, n)
	for i := range n {
		tpl := fullDay
		switch {
		case i == 0:
			tpl = arrivalDay
		case i == n-1:
			tpl = departureDay
		}
		days[i] = domain.ItineraryDay{
			Date:       dayDate(req.StartDate, i),
			DayIndex:   i + 1,
			Activities: render(tpl, req.Destination),
		}
	}
	return domain.Itinerary{
		Title:       fmt.Sprintf("%d-Day %s Adventure", n, req.Destination),
		Source:      "fallback",
		Destination: req.Destination,
		Days:        days,
	}
}

func render(tpl []slot, destination string) []domain.PlannedActivity {
	out := make([]domain.PlannedActivity, len(tpl))
	for i, s := range tpl {
		desc := s.description
		if strings.Contains(desc, "%s") {
			desc = fmt.Sprintf(desc, destination)
		}
		out[i] = domain.PlannedActivity{
			Title:         s.title,
			Description:   desc,
			Category:      s.category,
			StartTime:     s.start,
			EndTime:       s.end,
			EstimatedCost: s.cost,
		}
	}
	return out
}
