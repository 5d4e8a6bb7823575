package models

import "errors"

var (
	// ErrBackendUnavailable is returned when records cannot be fetched from the store.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendWrite is returned when an insert, update or delete is rejected by the store.
	ErrBackendWrite = errors.New("backend write failed")
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("invalid input")
	// ErrRecordNotFound is returned for ids that are not in the current record set.
	ErrRecordNotFound = errors.New("record not found")
)
