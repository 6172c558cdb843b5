package database

import "errors"

var (
	// ErrStorageUnavailable means the local database could not be opened
	// or prepared. Repository calls propagate it unchanged.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound means an update targeted an id that is not in the store.
	ErrNotFound = errors.New("record not found")
)
