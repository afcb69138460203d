package api

import (
	"errors"
	"fmt"
)

// Error is a failure reported by the backend: a non-2xx status or an
// envelope with success=false. Message is the envelope's error string and
// may be empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// ErrorMessage converts err into the text shown to the user. A backend error
// message is shown verbatim; a backend error without one falls back to
// fallback; anything else (connection refused, timeout, bad JSON) is shown
// as "fallback: cause".
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return fallback + ": " + err.Error()
}

// IsStatus reports whether err is a backend error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
