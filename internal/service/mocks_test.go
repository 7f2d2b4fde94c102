package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field: set only the ones your test needs.

type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByIDs func(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error)
	update    func(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Trip, error) {
	return m.listByIDs(ctx, ids)
}
func (m *mockTripRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Trip) error) (domain.Trip, error) {
	return m.update(ctx, id, fn)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockMemberRepo struct {
	create     func(ctx context.Context, m domain.TripMember) (domain.TripMember, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.TripMember, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, tm domain.TripMember) (domain.TripMember, error) {
	return m.create(ctx, tm)
}
func (m *mockMemberRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMemberRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TripMember, error) {
	return m.listByUser(ctx, userID)
}

type mockActivityRepo struct {
	create      func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	createBatch func(ctx context.Context, as []domain.Activity) ([]domain.Activity, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listByTrip  func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	update      func(ctx context.Context, id uuid.UUID, fn func(*domain.Activity) error) (domain.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) CreateBatch(ctx context.Context, as []domain.Activity) ([]domain.Activity, error) {
	return m.createBatch(ctx, as)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockActivityRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Activity) error) (domain.Activity, error) {
	return m.update(ctx, id, fn)
}

type mockVoteRepo struct {
	upsert         func(ctx context.Context, v domain.Vote) (domain.Vote, error)
	listByActivity func(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error)
}

func (m *mockVoteRepo) Upsert(ctx context.Context, v domain.Vote) (domain.Vote, error) {
	return m.upsert(ctx, v)
}
func (m *mockVoteRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error) {
	return m.listByActivity(ctx, activityID)
}

type mockCredentialRepo struct {
	create     func(ctx context.Context, c domain.Credential) (domain.Credential, error)
	getByEmail func(ctx context.Context, email string) (domain.Credential, error)
}

func (m *mockCredentialRepo) Create(ctx context.Context, c domain.Credential) (domain.Credential, error) {
	return m.create(ctx, c)
}
func (m *mockCredentialRepo) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	return m.getByEmail(ctx, email)
}

type mockGenerator struct {
	generate func(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error) {
	return m.generate(ctx, req)
}

// compile-time checks: the mocks must satisfy the interfaces they stand in for.
var (
	_ repo.TripRepo       = (*mockTripRepo)(nil)
	_ repo.MemberRepo     = (*mockMemberRepo)(nil)
	_ repo.ActivityRepo   = (*mockActivityRepo)(nil)
	_ repo.VoteRepo       = (*mockVoteRepo)(nil)
	_ repo.CredentialRepo = (*mockCredentialRepo)(nil)
)

// ---- shared fixtures -------------------------------------------------------

var (
	june1 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	june3 = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
)

// newMemoryStore returns a Store over a fresh in-memory backend with a
// deterministic clock.
func newMemoryStore(t *testing.T) *repo.Store {
	t.Helper()
	var tick time.Duration
	return repo.NewStore(kv.NewMemory(), repo.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			tick += time.Second
			return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC).Add(tick)
		},
	})
}

func validTrip(owner uuid.UUID) domain.Trip {
	return domain.Trip{
		OwnerID:         owner,
		Title:           "Lisbon Long Weekend",
		DestinationText: "Lisbon, Portugal",
		StartDate:       june1,
		EndDate:         june3,
	}
}
