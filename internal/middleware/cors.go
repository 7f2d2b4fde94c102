// Package middleware provides reusable HTTP middleware for the Wanderly API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge is how long, in seconds, browsers may cache a preflight answer.
const corsMaxAge = 600

// NewCORSHandler allows browser clients served from origins to call the API.
// Origins are full scheme+host values without a trailing slash. Bearer
// tokens travel in the Authorization header, so cookies are never allowed.
func NewCORSHandler(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	})
	return c.Handler
}
