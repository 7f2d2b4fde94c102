package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/kv"
	"github.com/pkordes/wanderly/internal/middleware"
)

// respondError maps err onto a status code and the JSON error envelope.
// subject names what was being looked up or written (e.g. "trip") and is
// used for not-found and conflict messages. Unrecognized errors are logged
// and answered with a generic 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		middleware.WriteError(w, http.StatusUnprocessableEntity, middleware.CodeValidation, validationMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, middleware.CodeNotFound, subject+" not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		middleware.WriteError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrConflict):
		middleware.WriteError(w, http.StatusConflict, middleware.CodeConflict, subject+" already exists")
	case errors.Is(err, kv.ErrConflict):
		middleware.WriteError(w, http.StatusConflict, middleware.CodeConflict, "concurrent update, please retry")
	case errors.As(err, &tooLarge):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, middleware.CodePayloadTooLarge, "request body too large")
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CodeInternal, "internal server error")
	}
}

// validationMessage extracts the human-readable part from a wrapped
// domain.ErrValidation, which appears either as a prefix
// ("service.TripService.Create: validation error: title is required") or as
// a suffix ("itinerary.Generator.Generate: destination is required: validation error").
func validationMessage(err error) string {
	const marker = "validation error"
	msg := err.Error()
	if i := strings.LastIndex(msg, marker+": "); i >= 0 {
		return msg[i+len(marker)+2:]
	}
	msg = strings.TrimSuffix(msg, ": "+marker)
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
