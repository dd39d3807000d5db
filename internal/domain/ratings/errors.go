package ratings

import "errors"

// Sentinel errors for table construction.
var (
	ErrEmptyTable    = errors.New("ratings table is empty")
	ErrInvalidRating = errors.New("invalid rating")
	ErrDuplicateBoat = errors.New("duplicate boat type")
	ErrParse         = errors.New("parse ratings")
)
