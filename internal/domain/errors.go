package domain

import "errors"

var (
	// ErrInvalidInput is returned when request fields are missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced shop or product does not exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when an actor modifies a shop it does not own
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstreamFailure is returned when the OCR or geocoding dependency fails
	ErrUpstreamFailure = errors.New("upstream dependency failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
