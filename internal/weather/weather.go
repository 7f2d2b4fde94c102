// Package weather fetches per-day forecasts from OpenWeatherMap.
// Lookups are best-effort: any failure is logged, counted and answered
// with a synthesized forecast, so Forecast never returns an error.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/metrics"
)

const (
	defaultBaseURL = "https://api.openweathermap.org"
	component      = "weather"
	bodyReadLimit  = 1 << 20
)

// Fallback reasons.
const (
	ReasonNoCredential  = "no_credential"
	ReasonCityNotFound  = "city_not_found"
	ReasonRequestFailed = "request_failed"
)

var errCityNotFound = errors.New("city not found")

// Service looks up forecasts. It is safe for concurrent use.
type Service struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics metrics.Recorder

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option customizes a Service.
type Option func(*Service)

// WithBaseURL points the service at a different API root.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Service) {
		if h != nil {
			s.http = h
		}
	}
}

// WithRand sets the randomness used for synthesized forecasts.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rnd = r }
}

// New creates a Service. An empty apiKey is allowed: every lookup then
// returns a synthesized forecast.
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
		rnd:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Forecast returns one entry per date in [start, end] that the provider
// covers, sorted by date. On any failure it returns a mock forecast for
// every date in the range instead.
func (s *Service) Forecast(ctx context.Context, city string, start, end time.Time) domain.Forecast {
	if s.apiKey == "" {
		return s.fallback(ctx, city, start, end, ReasonNoCredential, nil)
	}

	days, err := s.fetch(ctx, city, start, end)
	if err != nil {
		reason := ReasonRequestFailed
		if errors.Is(err, errCityNotFound) {
			reason = ReasonCityNotFound
		}
		return s.fallback(ctx, city, start, end, reason, err)
	}
	return domain.Forecast{City: city, Days: days}
}

type geoResult struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

func (s *Service) fetch(ctx context.Context, city string, start, end time.Time) ([]domain.DailyWeather, error) {
	var geo []geoResult
	q := url.Values{"q": {city}, "limit": {"1"}, "appid": {s.apiKey}}
	if err := s.getJSON(ctx, "/geo/1.0/direct", q, &geo); err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}
	if len(geo) == 0 {
		return nil, errCityNotFound
	}

	var fc forecastResponse
	q = url.Values{
		"lat":   {formatCoord(geo[0].Lat)},
		"lon":   {formatCoord(geo[0].Lon)},
		"units": {"metric"},
		"appid": {s.apiKey},
	}
	if err := s.getJSON(ctx, "/data/2.5/forecast", q, &fc); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	from := start.Format(time.DateOnly)
	to := end.Format(time.DateOnly)

	// Keep the 12:00 slot per date, else the first slot seen.
	picked := map[string]int{}
	for i, item := range fc.List {
		date, clock, _ := strings.Cut(item.DtTxt, " ")
		if date < from || date > to {
			continue
		}
		if _, seen := picked[date]; !seen || clock == "12:00:00" {
			picked[date] = i
		}
	}

	days := make([]domain.DailyWeather, 0, len(picked))
	for date, i := range picked {
		item := fc.List[i]
		d := domain.DailyWeather{
			Date:      date,
			Temp:      math.Round(item.Main.Temp),
			FeelsLike: math.Round(item.Main.FeelsLike),
			Humidity:  item.Main.Humidity,
			WindSpeed: item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			d.Description = item.Weather[0].Description
			d.Icon = item.Weather[0].Icon
		}
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b domain.DailyWeather) int { return strings.Compare(a.Date, b.Date) })
	return days, nil
}

func (s *Service) getJSON(ctx context.Context, path string, q url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(io.LimitReader(resp.Body, bodyReadLimit)).Decode(dest)
}

func (s *Service) fallback(ctx context.Context, city string, start, end time.Time, reason string, cause error) domain.Forecast {
	attrs := []slog.Attr{slog.String("reason", reason), slog.String("city", city)}
	if cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "weather lookup fell back to mock data", attrs...)
	s.metrics.RecordFallback(component, reason)

	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Forecast{City: city, Days: Mock(s.rnd, start, end), Mock: true}
}

type condition struct {
	description, icon string
	lo, hi            int
}

var conditions = []condition{
	{"clear sky", "01d", 18, 25},
	{"few clouds", "02d", 16, 23},
	{"scattered clouds", "03d", 15, 22},
	{"partly cloudy", "04d", 14, 20},
}

// Mock synthesizes a forecast for every date in [start, end]. Conditions
// cycle through a fixed list; temperature, humidity and wind are drawn
// from r within each condition's range.
func Mock(r *rand.Rand, start, end time.Time) []domain.DailyWeather {
	n := domain.DaySpan(start, end)
	if n < 1 {
		return nil
	}
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := make([]domain.DailyWeather, n)
	for i := range n {
		c := conditions[i%len(conditions)]
		temp := float64(c.lo + r.IntN(c.hi-c.lo))
		days[i] = domain.DailyWeather{
			Date:        first.AddDate(0, 0, i).Format(time.DateOnly),
			Temp:        temp,
			FeelsLike:   temp - 2,
			Humidity:    50 + r.IntN(30),
			WindSpeed:   2 + r.Float64()*5,
			Description: c.description,
			Icon:        c.icon,
		}
	}
	return days
}

// IconURL returns the OpenWeatherMap image for an icon code.
func IconURL(icon string) string {
	return "https://openweathermap.org/img/wn/" + icon + "@2x.png"
}

func formatCoord(f float64) string {
	return fmt.Sprintf("%.4f", f)
}
