package sync

import (
	"errors"
	"fmt"
)

// Sync failures are typed so the orchestrator can log-and-continue:
// nothing here ever affects local durability.
var (
	ErrInvalidURL   = errors.New("invalid sync server URL")
	ErrNoData       = errors.New("no data received from server")
	ErrDecoding     = errors.New("failed to decode server response")
	ErrUnauthorized = errors.New("unauthorized")
)

// ServerError is a non-2xx reply, or a 2xx reply whose body reports
// failure. The message carries whatever the server said.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}
