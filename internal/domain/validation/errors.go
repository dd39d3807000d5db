package validation

import "errors"

var (
	// ErrInvalidSubmission matches every rejected submission.
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrBadRules          = errors.New("invalid validation rules")
)
