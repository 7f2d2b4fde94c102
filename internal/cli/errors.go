package cli

import (
	"errors"
	"strings"

	"github.com/pkordes/wanderly/internal/domain"
)

// friendly rewrites a service error into a message fit for a terminal.
// subject names the record a not-found error refers to.
func friendly(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUnauthenticated):
		return errors.New("not signed in")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return domain.ErrInvalidCredentials
	case errors.Is(err, domain.ErrNotFound):
		return errors.New(subject + " not found")
	case errors.Is(err, domain.ErrConflict):
		return errors.New(subject + " already exists")
	case errors.Is(err, domain.ErrValidation):
		return errors.New(validationText(err))
	}
	return err
}

func validationText(err error) string {
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
