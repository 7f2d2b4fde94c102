package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
)

// BuildPrompt renders the user message for a normalized request.
// Every request field that is set appears in the prompt.
func BuildPrompt(req domain.ItineraryRequest) string {
	days := domain.DaySpan(req.StartDate, req.EndDate)
	start := req.StartDate.Format(time.DateOnly)
	end := req.EndDate.Format(time.DateOnly)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for %s.\n\n", days, req.Destination)
	b.WriteString("Trip Details:\n")
	fmt.Fprintf(&b, "- Dates: %s to %s (%d days)\n", start, end, days)
	fmt.Fprintf(&b, "- Group size: %d people\n", req.GroupSize)
	fmt.Fprintf(&b, "- Pace: %s\n", req.Pace)
	if req.Budget != nil {
		fmt.Fprintf(&b, "- Budget: %s %s\n", strconv.FormatFloat(*req.Budget, 'f', -1, 64), req.Currency)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(req.Interests, ", "))
	}
	if len(req.Dietary) > 0 {
		fmt.Fprintf(&b, "- Dietary restrictions: %s\n", strings.Join(req.Dietary, ", "))
	}
	if len(req.Accessibility) > 0 {
		fmt.Fprintf(&b, "- Accessibility needs: %s\n", strings.Join(req.Accessibility, ", "))
	}

	b.WriteString(`
Please provide a day-by-day itinerary with 3-5 activities per day. For each activity include:
- Activity title
- Brief description (1-2 sentences)
- Category (culture, food, nature, adventure, relaxation, shopping, etc.)
- Start time (HH:MM format)
- End time (HH:MM format)
`)
	fmt.Fprintf(&b, "- Estimated cost per person in %s\n", req.Currency)
	fmt.Fprintf(&b, `
Format your response as JSON with this structure:
{
  "title": "Trip title",
  "destination": %q,
  "days": [
    {
      "date": "YYYY-MM-DD",
      "dayIndex": 1,
      "activities": [
        {
          "title": "Activity name",
          "description": "Description",
          "category": "Category",
          "startTime": "09:00",
          "endTime": "11:00",
          "estimatedCost": 20
        }
      ]
    }
  ]
}

Return exactly %d entries in "days", one per date from %s to %s.
Ensure activities are scheduled logically (breakfast in morning, dinner in evening, etc.) and allow travel time between locations.`,
		req.Destination, days, start, end)

	return b.String()
}
