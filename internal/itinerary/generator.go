// Package itinerary turns a trip request into a day-by-day plan.
//
// The primary path asks a language model for a JSON itinerary and validates
// the answer. Whenever that path is unavailable or fails, the generator
// falls back to fixed day templates. Every fallback is logged and counted,
// and callers always receive an itinerary whose day count equals the
// inclusive span of the requested dates.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/metrics"
	"github.com/pkordes/wanderly/internal/openai"
)

// Fallback reasons, used as log attributes and metric labels.
const (
	ReasonNoCredential  = "no_credential"
	ReasonRequestFailed = "request_failed"
	ReasonTimeout       = "timeout"
	ReasonEmptyContent  = "empty_content"
	ReasonParseFailed   = "parse_failed"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 45 * time.Second

// systemPrompt fixes the assistant's role for every completion.
const systemPrompt = "You are a professional travel planner. Provide detailed, realistic, and well-structured travel itineraries in JSON format."

// Completer is the language-model boundary. *openai.Client satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// Generator produces itineraries. It is safe for concurrent use.
type Generator struct {
	llm     Completer
	logger  *slog.Logger
	metrics metrics.Recorder
	timeout time.Duration
}

// Option customizes a Generator.
type Option func(*Generator)

// WithTimeout sets the deadline applied to each model call.
// Zero or negative leaves DefaultTimeout in place.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewGenerator creates a Generator. A nil llm means no model is configured
// and every request is served from templates.
func NewGenerator(llm Completer, logger *slog.Logger, rec metrics.Recorder, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	g := &Generator{llm: llm, logger: logger, metrics: rec, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns an itinerary for req. The only error it returns is a
// domain.ErrValidation for a request it cannot plan at all; failures of the
// model are absorbed by the template fallback.
func (g *Generator) Generate(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	req, err := NormalizeRequest(req)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("itinerary.Generator.Generate: %w", err)
	}

	if g.llm == nil {
		return g.fallback(ctx, req, ReasonNoCredential, nil), nil
	}

	start := time.Now()
	it, err := g.generateAI(ctx, req)
	if err != nil {
		return g.fallback(ctx, req, classify(err), err), nil
	}
	g.metrics.ObserveGenerationLatency(time.Since(start))
	g.metrics.RecordGeneration(metrics.SourceAI, "")
	return it, nil
}

func (g *Generator) generateAI(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.llm.CompleteJSON(ctx, systemPrompt, BuildPrompt(req))
	if err != nil {
		return domain.Itinerary{}, err
	}
	if strings.TrimSpace(content) == "" {
		return domain.Itinerary{}, openai.ErrEmptyCompletion
	}
	return Parse(content, req)
}

func (g *Generator) fallback(ctx context.Context, req domain.ItineraryRequest, reason string, cause error) domain.Itinerary {
	attrs := []slog.Attr{
		slog.String("reason", reason),
		slog.String("destination", req.Destination),
		slog.Int("days", domain.DaySpan(req.StartDate, req.EndDate)),
	}
	if cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	var pe *ParseError
	if errors.As(cause, &pe) {
		attrs = append(attrs, slog.String("field", pe.Field))
	}
	g.logger.LogAttrs(ctx, slog.LevelWarn, "itinerary generation fell back to templates", attrs...)
	g.metrics.RecordGeneration(metrics.SourceFallback, reason)
	return Fallback(req)
}

func classify(err error) string {
	var pe *ParseError
	switch {
	case errors.As(err, &pe):
		return ReasonParseFailed
	case errors.Is(err, openai.ErrEmptyCompletion):
		return ReasonEmptyContent
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonRequestFailed
	}
}

// NormalizeRequest applies defaults and rejects requests that cannot be
// planned. Dates are truncated to UTC calendar days.
func NormalizeRequest(req domain.ItineraryRequest) (domain.ItineraryRequest, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Destination == "" {
		return req, fmt.Errorf("destination is required: %w", domain.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return req, fmt.Errorf("start and end dates are required: %w", domain.ErrValidation)
	}
	req.StartDate = dateOnly(req.StartDate)
	req.EndDate = dateOnly(req.EndDate)
	if req.EndDate.Before(req.StartDate) {
		return req, fmt.Errorf("end date must not be before start date: %w", domain.ErrValidation)
	}
	if domain.DaySpan(req.StartDate, req.EndDate) > domain.MaxTripDays {
		return req, fmt.Errorf("trip must not span more than %d days: %w", domain.MaxTripDays, domain.ErrValidation)
	}
	if req.GroupSize == 0 {
		req.GroupSize = 1
	}
	if req.GroupSize < 0 {
		return req, fmt.Errorf("group size must be at least 1: %w", domain.ErrValidation)
	}
	if req.Pace == "" {
		req.Pace = domain.PaceBalanced
	}
	if !req.Pace.IsValid() {
		return req, fmt.Errorf("unknown pace %q: %w", req.Pace, domain.ErrValidation)
	}
	if req.Budget != nil && *req.Budget < 0 {
		return req, fmt.Errorf("budget must not be negative: %w", domain.ErrValidation)
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if !domain.ValidCurrency(req.Currency) {
		return req, fmt.Errorf("currency must be a three-letter code: %w", domain.ErrValidation)
	}
	return req, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayDate returns the YYYY-MM-DD date of the i-th (0-based) day of the trip.
func dayDate(start time.Time, i int) string {
	return start.AddDate(0, 0, i).Format(time.DateOnly)
}
