package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("prediction not found")
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrCorrupt        = errors.New("stored data is corrupt")
)
