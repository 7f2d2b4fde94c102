// Package handler implements the HTTP handlers for the Wanderly API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but share the same Server struct so they
// can access its dependencies. NewRouter mounts them on a chi router.
package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/service"
)

// The interfaces below are defined here, in the consumer package, so handler
// tests can inject mocks without touching storage or the service layer.

// AuthServicer registers and authenticates users.
type AuthServicer interface {
	Register(ctx context.Context, email, password, displayName string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (token string, expires time.Time, err error)
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
}

// MemberServicer defines the membership operations.
type MemberServicer interface {
	List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)
	Add(ctx context.Context, tripID, userID uuid.UUID, role domain.MemberRole) (domain.TripMember, error)
}

// ActivityServicer defines the activity operations.
type ActivityServicer interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
}

// VoteServicer defines the voting operations.
type VoteServicer interface {
	Vote(ctx context.Context, activityID, userID uuid.UUID, choice domain.VoteChoice) (domain.Vote, error)
	List(ctx context.Context, activityID uuid.UUID) ([]domain.Vote, error)
}

// MessageServicer defines the chat operations.
type MessageServicer interface {
	Send(ctx context.Context, tripID, userID uuid.UUID, content string, msgType domain.MessageType) (domain.Message, error)
	List(ctx context.Context, tripID uuid.UUID) ([]domain.Message, error)
}

// PlannerServicer generates itineraries, optionally storing them as a trip.
type PlannerServicer interface {
	Plan(ctx context.Context, ownerID uuid.UUID, req domain.ItineraryRequest) (service.PlanResult, error)
	Preview(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
}

// ExportServicer flattens a trip for export.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityExportRow, error)
}

// Forecaster returns best-effort weather for a city and date range.
type Forecaster interface {
	Forecast(ctx context.Context, city string, start, end time.Time) domain.Forecast
}

// PlaceFinder returns best-effort places around a destination.
type PlaceFinder interface {
	NearDestination(ctx context.Context, destination, placeType string) domain.NearbyPlaces
}

// Deps lists the Server's collaborators. Every field is required except
// Logger, which defaults to slog.Default().
type Deps struct {
	Auth       AuthServicer
	Tokens     TokenIssuer
	Trips      TripServicer
	Members    MemberServicer
	Activities ActivityServicer
	Votes      VoteServicer
	Messages   MessageServicer
	Planner    PlannerServicer
	Export     ExportServicer
	Weather    Forecaster
	Places     PlaceFinder
	Logger     *slog.Logger
}

// Server holds the handlers' dependencies.
type Server struct {
	auth       AuthServicer
	tokens     TokenIssuer
	trips      TripServicer
	members    MemberServicer
	activities ActivityServicer
	votes      VoteServicer
	messages   MessageServicer
	planner    PlannerServicer
	export     ExportServicer
	weather    Forecaster
	places     PlaceFinder
	logger     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Server{
		auth:       d.Auth,
		tokens:     d.Tokens,
		trips:      d.Trips,
		members:    d.Members,
		activities: d.Activities,
		votes:      d.Votes,
		messages:   d.Messages,
		planner:    d.Planner,
		export:     d.Export,
		weather:    d.Weather,
		places:     d.Places,
		logger:     d.Logger,
	}
}
