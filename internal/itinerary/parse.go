package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/wanderly/internal/domain"
)

// ParseError reports model output that does not match the itinerary shape.
// Field is a JSON path such as "days[1].activities[0].startTime".
type ParseError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return "itinerary: parse: " + e.Reason
	}
	return fmt.Sprintf("itinerary: parse: %s: %s", e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// wire types mirror the JSON the model is asked to return.
type wireItinerary struct {
	Title       string    `json:"title" validate:"required"`
	Destination string    `json:"destination"`
	Days        []wireDay `json:"days" validate:"required,min=1,dive"`
}

type wireDay struct {
	Date       string         `json:"date"`
	DayIndex   int            `json:"dayIndex"`
	Activities []wireActivity `json:"activities" validate:"dive"`
}

type wireActivity struct {
	Title         string        `json:"title" validate:"required"`
	Description   string        `json:"description"`
	Category      string        `json:"category" validate:"required"`
	StartTime     string        `json:"startTime" validate:"required,datetime=15:04"`
	EndTime       string        `json:"endTime" validate:"required,datetime=15:04"`
	EstimatedCost float64       `json:"estimatedCost" validate:"gte=0"`
	Location      *wireLocation `json:"location"`
}

type wireLocation struct {
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon     *float64 `json:"lon" validate:"omitempty,longitude"`
	Address string   `json:"address"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Parse decodes and validates a model completion against a normalized
// request. Dates and day indexes are taken from the request, not the model,
// and an empty destination is filled in from the request.
func Parse(content string, req domain.ItineraryRequest) (domain.Itinerary, error) {
	var w wireItinerary
	if err := json.Unmarshal([]byte(content), &w); err != nil {
		return domain.Itinerary{}, &ParseError{Reason: "invalid JSON", Err: err}
	}

	if err := validate.Struct(w); err != nil {
		return domain.Itinerary{}, fromValidation(err)
	}

	want := domain.DaySpan(req.StartDate, req.EndDate)
	if len(w.Days) != want {
		return domain.Itinerary{}, &ParseError{
			Field:  "days",
			Reason: fmt.Sprintf("expected %d days, got %d", want, len(w.Days)),
		}
	}

	it := domain.Itinerary{
		Title:       strings.TrimSpace(w.Title),
		Source:      "ai",
		Destination: strings.TrimSpace(w.Destination),
		Days:        make([]domain.ItineraryDay, len(w.Days)),
	}
	if it.Destination == "" {
		it.Destination = req.Destination
	}

	for i, d := range w.Days {
		day := domain.ItineraryDay{
			Date:       dayDate(req.StartDate, i),
			DayIndex:   i + 1,
			Activities: make([]domain.PlannedActivity, 0, len(d.Activities)),
		}
		for j, a := range d.Activities {
			start, end := clock(a.StartTime), clock(a.EndTime)
			if end < start {
				return domain.Itinerary{}, &ParseError{
					Field:  fmt.Sprintf("days[%d].activities[%d].endTime", i, j),
					Reason: fmt.Sprintf("ends at %s before it starts at %s", end, start),
				}
			}
			pa := domain.PlannedActivity{
				Title:         strings.TrimSpace(a.Title),
				Description:   strings.TrimSpace(a.Description),
				Category:      strings.ToLower(strings.TrimSpace(a.Category)),
				StartTime:     start,
				EndTime:       end,
				EstimatedCost: a.EstimatedCost,
			}
			if a.Location != nil {
				pa.Location = &domain.Location{Lat: a.Location.Lat, Lon: a.Location.Lon, Address: a.Location.Address}
			}
			day.Activities = append(day.Activities, pa)
		}
		it.Days[i] = day
	}
	return it, nil
}

// clock re-renders an already validated time as zero-padded HH:MM, so
// "9:30" and "09:30" compare and store the same way.
func clock(s string) string {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

func fromValidation(err error) *ParseError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return &ParseError{Reason: "validation failed", Err: err}
	}
	fe := ves[0]
	// Namespace is "wireItinerary.days[0].activities[1].startTime";
	// drop the root struct name.
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return &ParseError{Field: field, Reason: reason(fe), Err: err}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "datetime":
		return "must be a time in HH:MM format"
	case "latitude", "longitude":
		return "is not a valid coordinate"
	}
	return "is invalid"
}
