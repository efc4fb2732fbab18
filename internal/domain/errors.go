package domain

import "errors"

// Sentinel errors shared by services and the HTTP layer. Services wrap them
// with context; controllers map them to status codes with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)
