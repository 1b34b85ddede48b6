package tokenstore

import "errors"

var (
	// ErrNotFound is returned by Read when no record is stored.
	ErrNotFound = errors.New("tokenstore.not_found")

	// ErrCorrupted is returned when a stored record cannot be decoded.
	ErrCorrupted = errors.New("tokenstore.corrupted")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("tokenstore.unknown_driver")

	// ErrRedisNotReady is returned when redis did not answer within the retry budget.
	ErrRedisNotReady = errors.New("tokenstore.redis_not_ready")
)
