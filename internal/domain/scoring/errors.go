package scoring

import "errors"

// ErrNoValidEntries means no entry in scope could be ranked. It is a display
// condition, not a failure.
var ErrNoValidEntries = errors.New("no valid entries found for the latest race")
