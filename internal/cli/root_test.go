package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/cli"
	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/itinerary"
	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/repo"
)

// stubForecaster answers every lookup with one mock day.
type stubForecaster struct{}

func (stubForecaster) Forecast(_ context.Context, city string, start, _ time.Time) domain.Forecast {
	return domain.Forecast{City: city, Mock: true, Days: []domain.DailyWeather{{
		Date: start.Format(time.DateOnly), Temp: 21, FeelsLike: 19, Humidity: 60, WindSpeed: 3.5,
		Description: "clear sky", Icon: "01d",
	}}}
}

// session runs commands against one shared in-memory backend, the way
// successive invocations share one database file.
type session struct {
	t *testing.T
	b kv.Backend
}

func newSession(t *testing.T) *session {
	return &session{t: t, b: kv.NewMemory()}
}

func (s *session) run(args ...string) (string, error) {
	s.t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCommand(cli.Options{
		Backend:   s.b,
		Generator: itinerary.NewGenerator(nil, nil, nil),
		Weather:   stubForecaster{},
		Stdout:    &out,
		Stderr:    &errOut,
	})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (s *session) mustRun(args ...string) string {
	s.t.Helper()
	out, err := s.run(args...)
	require.NoError(s.t, err, "wanderly %s", strings.Join(args, " "))
	return out
}

func (s *session) store() *repo.Store {
	return repo.NewStore(s.b, repo.Options{})
}

func (s *session) onlyTrip() domain.Trip {
	s.t.Helper()
	user, found, err := s.store().Session.Current(context.Background())
	require.NoError(s.t, err)
	require.True(s.t, found)
	ms, err := s.store().Members.ListByUser(context.Background(), user.ID)
	require.NoError(s.t, err)
	require.Len(s.t, ms, 1)
	trip, err := s.store().Trips.GetByID(context.Background(), ms[0].TripID)
	require.NoError(s.t, err)
	return trip
}

func TestAccountCommands(t *testing.T) {
	s := newSession(t)

	out := s.mustRun("signup", "--email", "Ana@Example.com", "--password", "s3cret!", "--name", "Ana")
	assert.Equal(t, "Signed up as Ana <ana@example.com>\n", out)

	out = s.mustRun("whoami")
	assert.Contains(t, out, "Ana <ana@example.com>")

	assert.Equal(t, "Signed out\n", s.mustRun("signout"))
	_, err := s.run("whoami")
	require.EqualError(t, err, "not signed in")

	_, err = s.run("signin", "--email", "ana@example.com", "--password", "wrong!")
	require.EqualError(t, err, "invalid email or password")

	out = s.mustRun("signin", "--email", "ana@example.com", "--password", "s3cret!")
	assert.Equal(t, "Signed in as Ana <ana@example.com>\n", out)
}

func TestSignup_Errors(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")

	_, err := s.run("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")
	require.EqualError(t, err, "account already exists")

	_, err = s.run("signup", "--email", "bo@example.com", "--password", "123", "--name", "Bo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	_, err = s.run("signup", "--email", "bo@example.com")
	require.Error(t, err, "missing required flags")
}

func TestPlan_CreatesTripWithActivities(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")

	out := s.mustRun("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-03", "--budget", "1500", "--currency", "eur")

	assert.Contains(t, out, "3-Day Lisbon Adventure (fallback)")
	assert.Contains(t, out, "Day 1  2025-06-01")
	assert.Contains(t, out, "Day 3  2025-06-03")
	assert.Contains(t, out, "activities proposed")

	trip := s.onlyTrip()
	assert.Equal(t, "Lisbon Adventure", trip.Title)
	require.NotNil(t, trip.BudgetCents)
	assert.Equal(t, int64(150000), *trip.BudgetCents)

	out = s.mustRun("trips")
	assert.Contains(t, out, trip.ID.String())
	assert.Contains(t, out, "2025-06-01 to 2025-06-03")
	assert.Contains(t, out, "1500.00 EUR")
}

func TestPlan_Errors(t *testing.T) {
	s := newSession(t)

	_, err := s.run("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-03")
	require.EqualError(t, err, "not signed in")

	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")

	_, err = s.run("plan", "Lisbon", "--start", "June 1", "--end", "2025-06-03")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")

	_, err = s.run("plan", "Lisbon", "--start", "2025-06-03", "--end", "2025-06-01")
	require.EqualError(t, err, "end date must not be before start date")
}

func TestTrips_Empty(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")

	assert.Contains(t, s.mustRun("trips"), "No trips yet")
}

func TestActivitiesAndVote(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")
	s.mustRun("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-01")
	trip := s.onlyTrip()

	acts, err := s.store().Activities.ListByTrip(context.Background(), trip.ID)
	require.NoError(t, err)
	require.NotEmpty(t, acts)
	first := acts[0]

	out := s.mustRun("activities", trip.ID.String())
	assert.Contains(t, out, first.Title)
	assert.Contains(t, out, "+0/-0")

	out = s.mustRun("vote", first.ID.String(), "up")
	assert.Contains(t, out, "(+1/-0)")

	// A second vote replaces the first.
	out = s.mustRun("vote", first.ID.String(), "down")
	assert.Contains(t, out, "(+0/-1)")

	_, err = s.run("vote", first.ID.String(), "sideways")
	require.Error(t, err)

	_, err = s.run("vote", uuid.NewString(), "up")
	require.EqualError(t, err, "activity not found")
}

func TestTripCommands_NonMember(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")
	s.mustRun("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-02")
	trip := s.onlyTrip()

	s.mustRun("signup", "--email", "bo@example.com", "--password", "s3cret!", "--name", "Bo")
	for _, cmd := range []string{"activities", "messages", "weather"} {
		t.Run(cmd, func(t *testing.T) {
			_, err := s.run(cmd, trip.ID.String())
			require.EqualError(t, err, "trip not found")
		})
	}

	_, err := s.run("activities", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trip id")
}

func TestSayAndMessages(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")
	s.mustRun("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-02")
	trip := s.onlyTrip()

	assert.Contains(t, s.mustRun("messages", trip.ID.String()), "No messages yet.")

	out := s.mustRun("say", trip.ID.String(), "Who's", "up", "for", "<b>pastéis</b>?")
	assert.Contains(t, out, "Ana: Who's up for pastéis?")

	out = s.mustRun("messages", trip.ID.String())
	assert.Contains(t, out, "Ana: Who's up for pastéis?")
	assert.NotContains(t, out, "<b>")
}

func TestWeather(t *testing.T) {
	s := newSession(t)
	s.mustRun("signup", "--email", "ana@example.com", "--password", "s3cret!", "--name", "Ana")
	s.mustRun("plan", "Lisbon", "--start", "2025-06-01", "--end", "2025-06-02")
	trip := s.onlyTrip()

	out := s.mustRun("weather", trip.ID.String())

	assert.Contains(t, out, "Weather for Lisbon (estimated)")
	assert.Contains(t, out, "2025-06-01")
	assert.Contains(t, out, "21°C")
	assert.Contains(t, out, "clear sky")
	assert.Contains(t, out, "https://openweathermap.org/img/wn/01d@2x.png")
}
