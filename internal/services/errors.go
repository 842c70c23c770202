package services

import "errors"

// Core error taxonomy. Handlers translate these onto HTTP statuses; anything
// else coming out of a service is a persistence failure and maps to 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)
