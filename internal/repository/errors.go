// Package repository defines the stores behind the booking service and
// the error values they share.  Higher layers such as services and
// handlers use these sentinels to tell failure scenarios apart.
package repository

import "errors"

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by account stores when the username is
// already registered.  Handlers translate it into HTTP 409.
var ErrUsernameTaken = errors.New("username already taken")

// ErrMovieExists is returned when a movie id collides with an existing
// catalog entry.
var ErrMovieExists = errors.New("movie already exists")

// ErrConflict is returned when a booking id collides with an existing
// ledger entry.
var ErrConflict = errors.New("conflict")
