package service

import "errors"

var (
	// ErrNotFound is returned when an id is not present in local state.
	ErrNotFound = errors.New("record not found")
	// ErrParcelNotFound is returned when a crop references an unknown parcel.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrConfirmationRequired is returned by cascading deletes that were not
	// explicitly confirmed.
	ErrConfirmationRequired = errors.New("deletion must be confirmed: dependent crops and tasks will be removed too")
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotReady is returned while the initial load has not completed.
	ErrNotReady = errors.New("data has not been loaded yet")
)
