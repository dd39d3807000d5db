package client

import (
	"errors"
	"fmt"
)

// Error constants.
var (
	ErrRequest  = errors.New("request failed")
	ErrResponse = errors.New("unexpected response")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d %s (%s): %s", e.Status, e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Is matches ErrResponse.
func (e *APIError) Is(target error) bool { return target == ErrResponse }
