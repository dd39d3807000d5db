package service

import "errors"

var (
	// ErrStoreUnavailable wraps any failure of the backing store.
	ErrStoreUnavailable = errors.New("entry store unavailable")
	ErrNotStarted       = errors.New("service not started")
)
