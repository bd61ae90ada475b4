package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrQuotaExceeded is returned when a storage write would exceed the available capacity.
	ErrQuotaExceeded = errors.New("quota exceeded")
)
