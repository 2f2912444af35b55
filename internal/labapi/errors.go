package labapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus matches any *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrInvalidRecord means the response body is not a usable appointment record.
	ErrInvalidRecord = errors.New("invalid appointment record")
)

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s", ErrUnexpectedStatus, e.Status)
	}
	return fmt.Sprintf("%s: %s: %s", ErrUnexpectedStatus, e.Status, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
