package seed

import "errors"

// Error constants.
var (
	ErrBadConfig = errors.New("invalid seed config")
	ErrMismatch  = errors.New("leaderboard mismatch")
)
