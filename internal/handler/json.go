package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/wanderly/internal/domain"
	"github.com/pkordes/wanderly/internal/middleware"
	"github.com/pkordes/wanderly/internal/service"
)

var validate = service.NewValidator()

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody reads a JSON request body into dst and validates it.
// Unknown fields are rejected. The returned error wraps domain.ErrValidation
// for malformed or invalid bodies, or is an *http.MaxBytesError when the
// body limit was hit.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: request body is required", domain.ErrValidation)
		default:
			return fmt.Errorf("%w: malformed JSON body: %s", domain.ErrValidation, err.Error())
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", domain.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		return service.ValidationError(err)
	}
	return nil
}

// pathID parses the named chi URL parameter as a UUID. A malformed ID is
// reported as not found, since no record can carry it.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse %s: %w", name, domain.ErrNotFound)
	}
	return id, nil
}

// callerID returns the authenticated user's ID. RequireBearer guarantees it
// is present on every authenticated route.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return id, nil
}

// paginationParams reads ?page and ?limit. Absent values take the defaults
// of domain.NewPageRequest; non-numeric values are a validation error.
func paginationParams(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	page, err := optionalInt(q.Get("page"), "page")
	if err != nil {
		return domain.PageRequest{}, err
	}
	limit, err := optionalInt(q.Get("limit"), "limit")
	if err != nil {
		return domain.PageRequest{}, err
	}
	return domain.NewPageRequest(page, limit), nil
}

func optionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return &n, nil
}

// paginationMeta is the pagination block of a paged list response.
type paginationMeta struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// pageResponse wraps one page of items with its metadata.
type pageResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

// paginate slices items down to the requested page. The result is never nil.
func paginate[T any](items []T, p domain.PageRequest) pageResponse[T] {
	total := len(items)
	lo, hi := p.Window(total)
	page := make([]T, hi-lo)
	copy(page, items[lo:hi])
	return pageResponse[T]{
		Data: page,
		Pagination: paginationMeta{
			Page:    p.Page,
			Limit:   p.Limit,
			Total:   total,
			HasMore: hi < total,
		},
	}
}

func fieldErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
