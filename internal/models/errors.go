package models

import "errors"

var (
	// ErrInvalidInput is returned for non-finite or out-of-range query input
	ErrInvalidInput = errors.New("invalid input")

	// ErrDestinationNotResolved covers both geocoder failures and empty geocoder results
	ErrDestinationNotResolved = errors.New("destination not resolved")

	// ErrNoSnapshot means no refresh has completed yet
	ErrNoSnapshot = errors.New("no snapshot loaded")
)
