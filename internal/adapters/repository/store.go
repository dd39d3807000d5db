// Package repository is the storage boundary for race entries. Every backend
// stores the same ten-column string row the club spreadsheet uses, so rows
// can move between backends unchanged.
package repository

import "context"

// Column positions of a Row.
const (
	ColRaceDate = iota
	ColBoatName
	ColSkipperName
	ColBoatType
	ColStartTime
	ColFinishTime
	ColElapsed
	ColCorrected
	ColComments
	ColSubmittedAt

	NumColumns
)

// Headers are the expected column names, in row order.
var Headers = [NumColumns]string{
	"Race Date",
	"Boat Name",
	"Skipper Name or Nickname",
	"Boat Type",
	"Start Time",
	"Finish Time",
	"Elapsed Time",
	"Corrected Time",
	"Comments or Improvement Ideas",
	"Submission Timestamp",
}

// Row is one stored submission.
type Row [NumColumns]string

// Store appends and reads rows. Rows are never updated or deleted.
type Store interface {
	// Append persists one row. It must not return before the row is durable
	// in the backend.
	Append(ctx context.Context, row Row) error

	// ReadAll returns every row in append order, header excluded.
	ReadAll(ctx context.Context) ([]Row, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	Close() error
}
