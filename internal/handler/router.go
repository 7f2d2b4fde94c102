package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/wanderly/internal/middleware"
)

// RouterOptions carries the cross-cutting pieces NewRouter mounts around
// the handlers.
type RouterOptions struct {
	// Verifier checks bearer tokens on every authenticated route. Required.
	Verifier middleware.TokenVerifier

	// Limiter throttles the generation endpoints. Nil disables limiting.
	Limiter *middleware.RateLimiter

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	// OpenAPI is served verbatim at GET /openapi.yaml when non-empty.
	OpenAPI []byte
}

// NewRouter returns a chi router with every API route mounted. Global
// middleware (request ID, logging, CORS, body limits) is applied by the
// caller.
func NewRouter(s *Server, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, middleware.CodeNotFound, "route not found")
	})

	r.Get("/healthz", s.GetHealth)
	if len(opts.OpenAPI) > 0 {
		r.Get("/openapi.yaml", serveOpenAPI(opts.OpenAPI))
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Post("/auth/sign-up", s.SignUp)
	r.Post("/auth/sign-in", s.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireBearer(opts.Verifier))

		limited := func(h http.HandlerFunc) http.Handler {
			if opts.Limiter == nil {
				return h
			}
			return opts.Limiter.Middleware()(h)
		}

		r.Get("/me", s.GetMe)

		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Method(http.MethodPost, "/trips/plan", limited(s.PlanTrip))
		r.Route("/trips/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/", s.UpdateTrip)
			r.Get("/members", s.ListMembers)
			r.Post("/members", s.AddMember)
			r.Get("/activities", s.ListActivities)
			r.Post("/activities", s.CreateActivity)
			r.Get("/messages", s.ListMessages)
			r.Post("/messages", s.SendMessage)
			r.Get("/weather", s.GetWeather)
			r.Get("/places", s.GetPlaces)
			r.Get("/export", s.ExportTrip)
		})

		r.Patch("/activities/{activityID}", s.UpdateActivity)
		r.Get("/activities/{activityID}/votes", s.ListVotes)
		r.Put("/activities/{activityID}/vote", s.CastVote)

		r.Method(http.MethodPost, "/itineraries", limited(s.PreviewItinerary))
	})
	return r
}
