package backend

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
)

// StatusError carries a non-auth failure status from the API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend: %s %s returned %d: %s", e.Method, e.Path, e.Code, e.Body)
	}
	return fmt.Sprintf("backend: %s %s returned %d", e.Method, e.Path, e.Code)
}

// IsAuthError reports whether err signals a bad or expired credential, in
// which case the session must be cleared and the user sent back to login.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
