package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/handler"
	"github.com/pkordes/wanderly/internal/middleware"
	"github.com/pkordes/wanderly/internal/service"
)

// Each mock is a test double for one handler servicer interface.
// Set only the method fields your test needs.

type mockAuthServicer struct {
	register     func(ctx context.Context, email, password, displayName string) (domain.User, error)
	authenticate func(ctx context.Context, email, password string) (domain.User, error)
	getUser      func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, email, password, displayName string) (domain.User, error) {
	return m.register(ctx, email, password, displayName)
}
func (m *mockAuthServicer) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	return m.authenticate(ctx, email, password)
}
func (m *mockAuthServicer) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getUser(ctx, id)
}

type mockTokenIssuer struct {
	issue func(userID uuid.UUID, email string) (string, time.Time, error)
}

func (m *mockTokenIssuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	return m.issue(userID, email)
}

type mockTripServicer struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	update      func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, patch)
}

type mockMemberServicer struct {
	list func(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)
	add  func(ctx context.Context, tripID, userID uuid.UUID, role domain.MemberRole) (domain.TripMember, error)
}

func (m *mockMemberServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	return m.list(ctx, tripID)
}
func (m *mockMemberServicer) Add(ctx context.Context, tripID, userID uuid.UUID, role domain.MemberRole) (domain.TripMember, error) {
	return m.add(ctx, tripID, userID, role)
}

type mockActivityServicer struct {
	create func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	get    func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	list   func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	update func(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityServicer) Get(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.get(ctx, id)
}
func (m *mockActivityServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.list(ctx, tripID)
}
func (m *mockActivityServicer) Update(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	return m.update(ctx, id, patch)
}

type mockVoteServicer struct {
	vote func(ctx context.Context, activityID, userID uuid.UUID, choice domain.VoteChoice) (domain.Vote, error)
	list func(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error)
}

func (m *mockVoteServicer) Vote(ctx context.Context, activityID, userID uuid.UUID, choice domain.VoteChoice) (domain.Vote, error) {
	return m.vote(ctx, activityID, userID, choice)
}
func (m *mockVoteServicer) List(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error) {
	return m.list(ctx, activityID)
}

type mockMessageServicer struct {
	send func(ctx context.Context, tripID, userID uuid.UUID, content string, msgType domain.MessageType) (domain.Message, error)
	list func(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error)
}

func (m *mockMessageServicer) Send(ctx context.Context, tripID, userID uuid.UUID, content string, msgType domain.MessageType) (domain.Message, error) {
	return m.send(ctx, tripID, userID, content, msgType)
}
func (m *mockMessageServicer) List(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error) {
	return m.list(ctx, tripID)
}

type mockPlannerServicer struct {
	plan    func(ctx context.Context, ownerID uuid.UUID, req domain.ItineraryRequest) (service.PlanResult, error)
	preview func(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
}

func (m *mockPlannerServicer) Plan(ctx context.Context, ownerID uuid.UUID, req domain.ItineraryRequest) (service.PlanResult, error) {
	return m.plan(ctx, ownerID, req)
}
func (m *mockPlannerServicer) Preview(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	return m.preview(ctx, req)
}

type mockExportServicer struct {
	export func(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityExportRow, error) {
	return m.export(ctx, tripID)
}

type mockForecaster struct {
	forecast func(ctx context.Context, city string, start, end time.Time) domain.Forecast
}

func (m *mockForecaster) Forecast(ctx context.Context, city string, start, end time.Time) domain.Forecast {
	return m.forecast(ctx, city, start, end)
}

type mockPlaceFinder struct {
	nearDestination func(ctx context.Context, destination, placeType string) domain.NearbyPlaces
}

func (m *mockPlaceFinder) NearDestination(ctx context.Context, destination, placeType string) domain.NearbyPlaces {
	return m.nearDestination(ctx, destination, placeType)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.AuthServicer     = (*mockAuthServicer)(nil)
	_ handler.TokenIssuer      = (*mockTokenIssuer)(nil)
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.MemberServicer   = (*mockMemberServicer)(nil)
	_ handler.ActivityServicer = (*mockActivityServicer)(nil)
	_ handler.VoteServicer     = (*mockVoteServicer)(nil)
	_ handler.MessageServicer  = (*mockMessageServicer)(nil)
	_ handler.PlannerServicer  = (*mockPlannerServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
	_ handler.Forecaster       = (*mockForecaster)(nil)
	_ handler.PlaceFinder      = (*mockPlaceFinder)(nil)
)

// ---- helpers ---------------------------------------------------------------

// staticVerifier accepts exactly one token and maps it to one user.
type staticVerifier struct {
	token  string
	userID uuid.UUID
}

func (v staticVerifier) Verify(token string) (uuid.UUID, error) {
	if token != v.token {
		return uuid.Nil, errors.New("bad token")
	}
	return v.userID, nil
}

const testToken = "test-token"

// caller is the user every authenticated test request is made as.
var caller = uuid.MustParse("6f1d3c1e-7d3a-4c55-9d0e-2a7b9c0f1a11")

// newHTTPHandler wires a Server with the given deps into the router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	return newHTTPHandlerWith(d, handler.RouterOptions{})
}

func newHTTPHandlerWith(d handler.Deps, opts handler.RouterOptions) http.Handler {
	opts.Verifier = staticVerifier{token: testToken, userID: caller}
	return handler.NewRouter(handler.NewServer(d), opts)
}

// do sends an authenticated request and returns the recorded response.
func do(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody decodes the error envelope of rec.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	var body middleware.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func tripFixture() domain.Trip {
	budget := int64(150000)
	return domain.Trip{
		ID:              uuid.New(),
		OwnerID:         caller,
		Title:           "Lisbon Long Weekend",
		DestinationText: "Lisbon, Portugal",
		StartDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Status:          domain.TripPlanned,
		BudgetCents:     &budget,
		Currency:        "EUR",
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
}

// tripFor returns a TripServicer whose GetByID finds trip and nothing else.
func tripFor(trip domain.Trip) *mockTripServicer {
	return &mockTripServicer{getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		if id != trip.ID {
			return domain.Trip{}, domain.ErrNotFound
		}
		return trip, nil
	}}
}

// membersOf returns a MemberServicer listing the given users on every trip.
func membersOf(users ...uuid.UUID) *mockMemberServicer {
	return &mockMemberServicer{list: func(_ context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
		out := make([]domain.TripMember, 0, len(users))
		for i, u := range users {
			role := domain.RoleViewer
			if i == 0 {
				role = domain.RoleOwner
			}
			out = append(out, domain.TripMember{ID: uuid.New(), TripID: tripID, UserID: u, Role: role})
		}
		return out, nil
	}}
}
