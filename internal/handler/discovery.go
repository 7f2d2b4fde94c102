package handler

import (
	"net/http"
	"slices"

	"github.com/pkordes/wanderly/internal/places"
)

// GetWeather implements GET /trips/{tripID}/weather.
// The forecast covers the trip's dates and is never an error: when the
// provider is unavailable the body carries mock data with "mock": true.
func (s *Server) GetWeather(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	f := s.weather.Forecast(r.Context(), trip.DestinationText, trip.StartDate, trip.EndDate)
	writeJSON(w, http.StatusOK, f)
}

// GetPlaces implements GET /trips/{tripID}/places.
// ?type selects the place category and defaults to tourist_attraction.
func (s *Server) GetPlaces(w http.ResponseWriter, r *http.Request) {
	trip, err := s.memberTrip(r)
	if err != nil {
		s.respondError(w, r, err, "trip")
		return
	}
	placeType := r.URL.Query().Get("type")
	if placeType == "" {
		placeType = places.DefaultType
	}
	if !slices.Contains(places.Types, placeType) {
		s.respondError(w, r, fieldErrorf("type must be one of %v", places.Types), "trip")
		return
	}
	writeJSON(w, http.StatusOK, s.places.NearDestination(r.Context(), trip.DestinationText, placeType))
}
