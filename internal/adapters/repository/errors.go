package repository

import "errors"

// Sentinel errors shared by store backends.
var (
	ErrClosed         = errors.New("store is closed")
	ErrHeaderMismatch = errors.New("stored headers do not match expected columns")
	ErrBadRow         = errors.New("row has the wrong number of columns")
	ErrMissingSetting = errors.New("store setting is required")
)
