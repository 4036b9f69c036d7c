// Package service holds the booking domain logic: accounts, the movie
// catalog, per-showing seat locks and the booking engine.  Handlers map the
// errors declared here onto HTTP status codes.
package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair
	// does not match any admin or customer account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when the caller lacks the capability
	// required by the operation.
	ErrAccessDenied = errors.New("access denied")

	ErrAccountNotFound = errors.New("account not found")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUnknownShowing is returned when the requested theater or time is
	// not offered for the movie.
	ErrUnknownShowing = errors.New("unknown showing")
)

// ValidationError reports malformed input.  Reason is safe to show to the
// caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// SeatsTakenError is returned when some requested seats are already claimed
// for the showing.  Seats holds the conflicting labels in seat order.
type SeatsTakenError struct {
	Seats []string
}

func (e *SeatsTakenError) Error() string {
	return "seats already taken: " + strings.Join(e.Seats, ", ")
}
