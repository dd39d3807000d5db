package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
)

// Layouts accepted for the race date column. Spreadsheet users sometimes
// retype dates by hand.
var dateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
}

// Layouts accepted for the submission timestamp, newest format first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// EncodeEntry renders an entry in the stored column format.
func EncodeEntry(e model.RaceEntry) Row {
	return Row{
		ColRaceDate:    e.RaceDate.Format(model.DateLayout),
		ColBoatName:    e.BoatName,
		ColSkipperName: e.SkipperName,
		ColBoatType:    e.BoatType,
		ColStartTime:   e.StartTime,
		ColFinishTime:  e.FinishTime,
		ColElapsed:     model.FormatDuration(e.Elapsed),
		ColCorrected:   model.FormatDuration(e.Corrected),
		ColComments:    e.Comments,
		ColSubmittedAt: e.SubmittedAt.Format(time.RFC3339Nano),
	}
}

// DecodeRow parses a stored row. ok is false when the race date cannot be
// read; such rows belong to no race and are dropped. A row whose elapsed or
// corrected time is unreadable or negative comes back with Malformed set.
func DecodeRow(row Row) (entry model.RaceEntry, ok bool) {
	date, err := parseDate(row[ColRaceDate])
	if err != nil {
		return model.RaceEntry{}, false
	}

	entry = model.RaceEntry{
		RaceDate:    date,
		BoatName:    strings.TrimSpace(row[ColBoatName]),
		SkipperName: strings.TrimSpace(row[ColSkipperName]),
		BoatType:    strings.TrimSpace(row[ColBoatType]),
		StartTime:   strings.TrimSpace(row[ColStartTime]),
		FinishTime:  strings.TrimSpace(row[ColFinishTime]),
		Comments:    row[ColComments],
		SubmittedAt: parseTimestamp(row[ColSubmittedAt]),
	}

	elapsed, errE := model.ParseDuration(row[ColElapsed])
	corrected, errC := model.ParseDuration(row[ColCorrected])
	if errE != nil || errC != nil || elapsed < 0 || corrected < 0 {
		entry.Malformed = true
		return entry, true
	}
	entry.Elapsed = elapsed
	entry.Corrected = corrected
	return entry, true
}

// DecodeRows decodes rows and counts those that were dropped or malformed.
func DecodeRows(rows []Row) (entries []model.RaceEntry, malformed int) {
	entries = make([]model.RaceEntry, 0, len(rows))
	for _, row := range rows {
		e, ok := DecodeRow(row)
		if !ok {
			malformed++
			continue
		}
		if e.Malformed {
			malformed++
		}
		entries = append(entries, e)
	}
	return entries, malformed
}

// RowFromStrings copies a record of exactly NumColumns fields into a Row.
func RowFromStrings(fields []string) (Row, error) {
	var row Row
	if len(fields) != NumColumns {
		return row, fmt.Errorf("%w: got %d, want %d", ErrBadRow, len(fields), NumColumns)
	}
	copy(row[:], fields)
	return row, nil
}

// IsHeader reports whether fields are the expected header row.
func IsHeader(fields []string) bool {
	if len(fields) != NumColumns {
		return false
	}
	for i, h := range Headers {
		if strings.TrimSpace(fields[i]) != h {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return model.DateOf(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
