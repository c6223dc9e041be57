package repository

import "errors"

var (
	// ErrNotFound is returned when no value is stored under the id.
	ErrNotFound = errors.New("repository: not found")

	// ErrEmptyID is returned for operations on an empty id.
	ErrEmptyID = errors.New("repository: empty id")

	// ErrMarshal is returned when value serialization fails.
	ErrMarshal = errors.New("repository: failed to marshal value")

	// ErrUnmarshal is returned when stored data cannot be decoded.
	ErrUnmarshal = errors.New("repository: failed to unmarshal value")
)
