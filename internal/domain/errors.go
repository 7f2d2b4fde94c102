package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in its collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidCredentials is returned by sign-in when the email is unknown or
// the password does not match. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as a second account for the same email or a duplicate trip member.
var ErrConflict = errors.New("conflict")

// ErrUnauthenticated is returned when an operation needs a signed-in user
// and none is present.
var ErrUnauthenticated = errors.New("not signed in")
