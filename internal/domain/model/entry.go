// Package model contains domain models passed between layers.
package model

import "time"

// Layouts used for dates and clock times in submissions and stored rows.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Submission is the raw form input of one race result, before validation.
type Submission struct {
	SubmissionID string // client-generated id for idempotency, optional
	RaceDate     string // YYYY-MM-DD
	BoatName     string
	SkipperName  string
	BoatType     string
	StartTime    string // HH:MM
	FinishTime   string // HH:MM, same day as start
	Comments     string
}

// RaceEntry is one stored race result.
type RaceEntry struct {
	RaceDate    time.Time // midnight UTC of the race day
	BoatName    string
	SkipperName string
	BoatType    string
	StartTime   string
	FinishTime  string
	Elapsed     time.Duration
	Corrected   time.Duration
	Comments    string
	SubmittedAt time.Time

	// Malformed is set when the stored elapsed or corrected time could not
	// be parsed. Malformed entries still count when looking for the latest
	// race date but never take part in ranking.
	Malformed bool
}

// Year returns the calendar year of the race.
func (e RaceEntry) Year() int { return e.RaceDate.Year() }

// LeaderboardRow is a ranked entry of one race date.
type LeaderboardRow struct {
	Position    int // 1-based
	SkipperName string
	BoatName    string
	BoatType    string
	Elapsed     time.Duration
	Corrected   time.Duration
	Points      int
	SubmittedAt time.Time
}

// AnnualStanding is a skipper's points total for one year.
type AnnualStanding struct {
	Year        int
	SkipperName string
	Points      int
	Races       int
}

// DateOf truncates t to midnight UTC of its calendar day in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD race date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Receipt acknowledges a submission. Entry is zero for duplicates.
type Receipt struct {
	SubmissionID string
	Duplicate    bool
	Entry        RaceEntry
	Warnings     []string
}
