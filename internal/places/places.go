// Package places looks up points of interest through the Google Maps
// legacy JSON endpoints, degrading to a small built-in table on failure.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/metrics"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"
	component      = "places"
	bodyReadLimit  = 1 << 20

	// DefaultType and DefaultRadius apply when Nearby gets zero values.
	DefaultType   = "tourist_attraction"
	DefaultRadius = 5000

	maxResults = 10
)

// Fallback reasons.
const (
	ReasonNoCredential  = "no_credential"
	ReasonRequestFailed = "request_failed"
	ReasonNoResults     = "no_results"
)

// Types lists the place categories offered to clients.
var Types = []string{"tourist_attraction", "restaurant", "museum", "park", "shopping_mall"}

var errNoCredential = errors.New("google maps api key is not configured")

// Service queries Google Maps. It is safe for concurrent use.
type Service struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// Option customizes a Service.
type Option func(*Service)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Service) {
		if h != nil {
			s.http = h
		}
	}
}

// WithBaseURL overrides the Maps API root.
func WithBaseURL(u string) Option {
	return func(s *Service) {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			s.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// New builds a Service. An empty apiKey is allowed; every lookup then
// answers from the mock table.
func New(apiKey string, logger *slog.Logger, rec metrics.Recorder, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	s := &Service{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		metrics: rec,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type apiLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type apiPlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	Types            []string `json:"types"`
	Geometry         struct {
		Location apiLocation `json:"location"`
	} `json:"geometry"`
}

type placesResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message"`
	Results      []apiPlace `json:"results"`
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location apiLocation `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates. ok is false when the
// address cannot be resolved.
func (s *Service) Geocode(ctx context.Context, address string) (domain.LatLng, bool) {
	if s.apiKey == "" {
		return domain.LatLng{}, false
	}
	var resp geocodeResponse
	if err := s.getJSON(ctx, "/geocode/json", url.Values{"address": {address}}, &resp); err != nil {
		s.logger.WarnContext(ctx, "geocode failed", "address", address, "error", err)
		return domain.LatLng{}, false
	}
	if resp.Status != "OK" || len(resp.Results) == 0 {
		return domain.LatLng{}, false
	}
	loc := resp.Results[0].Geometry.Location
	return domain.LatLng{Lat: loc.Lat, Lng: loc.Lng}, true
}

// Nearby returns up to ten places of placeType within radius meters of
// center. Empty results and failures are answered from the mock table for
// destination.
func (s *Service) Nearby(ctx context.Context, destination string, center domain.LatLng, placeType string, radius int) []domain.Place {
	found, _ := s.nearby(ctx, destination, center, placeType, radius)
	return found
}

func (s *Service) nearby(ctx context.Context, destination string, center domain.LatLng, placeType string, radius int) ([]domain.Place, bool) {
	if placeType == "" {
		placeType = DefaultType
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	q := url.Values{
		"location": {formatLatLng(center)},
		"radius":   {strconv.Itoa(radius)},
		"type":     {placeType},
	}
	found, err := s.query(ctx, "/place/nearbysearch/json", q)
	if err != nil || len(found) == 0 {
		return s.fallback(ctx, destination, center, err), true
	}
	return found, false
}

// Search runs a free-text place search, biased towards center when given.
func (s *Service) Search(ctx context.Context, query string, center *domain.LatLng) []domain.Place {
	q := url.Values{"query": {query}}
	var origin domain.LatLng
	if center != nil {
		origin = *center
		q.Set("location", formatLatLng(origin))
		q.Set("radius", strconv.Itoa(DefaultRadius))
	}
	found, err := s.query(ctx, "/place/textsearch/json", q)
	if err != nil || len(found) == 0 {
		return s.fallback(ctx, query, origin, err)
	}
	return found
}

// NearDestination geocodes destination and searches around it.
func (s *Service) NearDestination(ctx context.Context, destination, placeType string) domain.NearbyPlaces {
	if placeType == "" {
		placeType = DefaultType
	}
	out := domain.NearbyPlaces{Destination: destination, Type: placeType}
	center, ok := s.Geocode(ctx, destination)
	if !ok {
		out.Places = s.fallback(ctx, destination, center, errGeocode(s.apiKey))
		out.Mock = true
		return out
	}
	out.Center = center
	out.Places, out.Mock = s.nearby(ctx, destination, center, placeType, DefaultRadius)
	return out
}

func errGeocode(apiKey string) error {
	if apiKey == "" {
		return errNoCredential
	}
	return errors.New("destination could not be geocoded")
}

func (s *Service) query(ctx context.Context, path string, q url.Values) ([]domain.Place, error) {
	if s.apiKey == "" {
		return nil, errNoCredential
	}
	var resp placesResponse
	if err := s.getJSON(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("places status %s: %s", resp.Status, resp.ErrorMessage)
	}

	n := min(len(resp.Results), maxResults)
	out := make([]domain.Place, 0, n)
	for _, p := range resp.Results[:n] {
		addr := p.Vicinity
		if addr == "" {
			addr = p.FormattedAddress
		}
		out = append(out, domain.Place{
			PlaceID:  p.PlaceID,
			Name:     p.Name,
			Address:  addr,
			Location: domain.LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
			Rating:   p.Rating,
			Types:    p.Types,
		})
	}
	return out, nil
}

func (s *Service) getJSON(ctx context.Context, path string, q url.Values, dest any) error {
	q.Set("key", s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("maps request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps request: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, bodyReadLimit)).Decode(dest); err != nil {
		return fmt.Errorf("decode maps response: %w", err)
	}
	return nil
}

func (s *Service) fallback(ctx context.Context, destination string, center domain.LatLng, cause error) []domain.Place {
	reason := ReasonNoResults
	switch {
	case errors.Is(cause, errNoCredential):
		reason = ReasonNoCredential
	case cause != nil:
		reason = ReasonRequestFailed
	}
	attrs := []any{"reason", reason, "destination", destination}
	if cause != nil && reason != ReasonNoCredential {
		attrs = append(attrs, "error", cause.Error())
	}
	s.logger.WarnContext(ctx, "places lookup fell back to mock data", attrs...)
	s.metrics.RecordFallback(component, reason)
	return MockPlaces(destination, center)
}

func ptr(f float64) *float64 { return &f }

// MockPlaces returns the built-in places for destination. Paris gets three
// landmarks; anywhere else gets a single city-center entry at center.
func MockPlaces(destination string, center domain.LatLng) []domain.Place {
	city, _, _ := strings.Cut(destination, ",")
	if strings.EqualFold(strings.TrimSpace(city), "paris") {
		return []domain.Place{
			{
				PlaceID:  "mock_eiffel",
				Name:     "Eiffel Tower",
				Address:  "Champ de Mars, 5 Avenue Anatole France",
				Location: domain.LatLng{Lat: 48.8584, Lng: 2.2945},
				Rating:   ptr(4.7),
				Types:    []string{"tourist_attraction", "point_of_interest"},
			},
			{
				PlaceID:  "mock_louvre",
				Name:     "Louvre Museum",
				Address:  "Rue de Rivoli",
				Location: domain.LatLng{Lat: 48.8606, Lng: 2.3376},
				Rating:   ptr(4.8),
				Types:    []string{"museum", "tourist_attraction"},
			},
			{
				PlaceID:  "mock_notredame",
				Name:     "Notre-Dame Cathedral",
				Address:  "6 Parvis Notre-Dame",
				Location: domain.LatLng{Lat: 48.8530, Lng: 2.3499},
				Rating:   ptr(4.7),
				Types:    []string{"church", "tourist_attraction"},
			},
		}
	}
	return []domain.Place{{
		PlaceID:  "mock_1",
		Name:     "City Center",
		Address:  "Downtown",
		Location: center,
		Rating:   ptr(4.5),
		Types:    []string{"tourist_attraction"},
	}}
}

func formatLatLng(l domain.LatLng) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}
