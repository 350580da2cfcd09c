package models

import "errors"

// Sentinel errors shared across repositories and services. Handlers map them
// to HTTP statuses; callers test with errors.Is.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnreachable   = errors.New("no path between stations")
	ErrConflict      = errors.New("conflicting schedule")
)
