// Package scoring ranks race entries by Portsmouth-corrected time and turns
// rankings into weekly and annual points.
//
// Everything here is a pure function of its input: boards are recomputed
// from the full entry history on every read and nothing is cached.
package scoring

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
)

// neutralRating corresponds to a multiplier of 1.0.
const neutralRating = 100.0

// RatingLookup resolves a boat type to its Portsmouth rating. known is false
// when the type is not listed and rating is the fallback.
type RatingLookup interface {
	Lookup(boatType string) (rating float64, known bool)
}

// Engine computes corrected times against a fixed ratings table.
type Engine struct {
	table RatingLookup
}

// NewEngine creates an engine for table.
func NewEngine(table RatingLookup) *Engine {
	return &Engine{table: table}
}

// CorrectedTime scales elapsed by 100/rating of boatType, rounded to the
// nearest whole second. Unlisted boat types are scored with the table's
// fallback rating and known is false.
func (e *Engine) CorrectedTime(elapsed time.Duration, boatType string) (corrected time.Duration, known bool) {
	rating := neutralRating
	if e != nil && e.table != nil {
		rating, known = e.table.Lookup(boatType)
	}
	return Correct(elapsed, rating), known
}

// Correct scales elapsed by 100/rating. A non-positive rating is treated as
// neutral. Halves round to even.
func Correct(elapsed time.Duration, rating float64) time.Duration {
	multiplier := 1.0
	if rating > 0 {
		multiplier = neutralRating / rating
	}
	seconds := math.RoundToEven(elapsed.Seconds() * multiplier)
	return time.Duration(seconds) * time.Second
}

// AssignPoints returns the points for a 0-based rank in a fleet:
//
//	fleet 1:  1
//	fleet 2:  2 1
//	fleet 3:  3 2 1
//	fleet 4+: 4 3 2 1 1 1 ...
//
// Ranks outside a 2- or 3-boat table score 0; so does an empty fleet.
func AssignPoints(rank, fleetSize int) int {
	if rank < 0 {
		return 0
	}
	switch {
	case fleetSize == 1:
		return 1
	case fleetSize == 2, fleetSize == 3:
		return max(0, fleetSize-rank)
	case fleetSize >= 4:
		return max(1, 4-rank)
	default:
		return 0
	}
}

// RankEntries drops malformed entries, orders the rest by corrected time and
// attaches points for a fleet of the remaining size. Equal corrected times
// are ordered by submission time, then skipper and boat name.
func RankEntries(entries []model.RaceEntry) []model.LeaderboardRow {
	valid := make([]model.RaceEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Malformed {
			valid = append(valid, e)
		}
	}
	slices.SortStableFunc(valid, compareEntries)

	fleet := len(valid)
	rows := make([]model.LeaderboardRow, fleet)
	for i, e := range valid {
		rows[i] = model.LeaderboardRow{
			Position:    i + 1,
			SkipperName: e.SkipperName,
			BoatName:    e.BoatName,
			BoatType:    e.BoatType,
			Elapsed:     e.Elapsed,
			Corrected:   e.Corrected,
			Points:      AssignPoints(i, fleet),
			SubmittedAt: e.SubmittedAt,
		}
	}
	return rows
}

func compareEntries(a, b model.RaceEntry) int {
	if c := cmp.Compare(a.Corrected, b.Corrected); c != 0 {
		return c
	}
	if c := a.SubmittedAt.Compare(b.SubmittedAt); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SkipperName, b.SkipperName); c != 0 {
		return c
	}
	return cmp.Compare(a.BoatName, b.BoatName)
}

// Weekly is the ranking of the latest race date.
type Weekly struct {
	RaceDate  time.Time
	FleetSize int
	Rows      []model.LeaderboardRow
}

// WeeklyLeaderboard ranks the entries of the latest race date found in
// entries. The latest date is taken over every dated entry, malformed or
// not. ErrNoValidEntries is returned, together with the date when one
// exists, if nothing on that date can be ranked.
func WeeklyLeaderboard(entries []model.RaceEntry) (Weekly, error) {
	var latest time.Time
	for _, e := range entries {
		if !e.RaceDate.IsZero() && e.RaceDate.After(latest) {
			latest = e.RaceDate
		}
	}
	if latest.IsZero() {
		return Weekly{}, ErrNoValidEntries
	}

	var race []model.RaceEntry
	for _, e := range entries {
		if e.RaceDate.Equal(latest) {
			race = append(race, e)
		}
	}
	rows := RankEntries(race)
	w := Weekly{RaceDate: latest, FleetSize: len(rows), Rows: rows}
	if len(rows) == 0 {
		return w, ErrNoValidEntries
	}
	return w, nil
}

// Annual holds the standings of one year.
type Annual struct {
	Year      int
	Races     int
	Standings []model.AnnualStanding
}

// AnnualStandings scores every race date on its own, sums points per skipper
// and year, and returns the most recent year ordered by points (ties by
// skipper name).
func AnnualStandings(entries []model.RaceEntry) (Annual, error) {
	byDate := make(map[time.Time][]model.RaceEntry)
	for _, e := range entries {
		if e.Malformed || e.RaceDate.IsZero() {
			continue
		}
		byDate[e.RaceDate] = append(byDate[e.RaceDate], e)
	}
	if len(byDate) == 0 {
		return Annual{}, ErrNoValidEntries
	}

	latestYear := 0
	for date := range byDate {
		latestYear = max(latestYear, date.Year())
	}

	type tally struct {
		points int
		races  int
	}
	totals := make(map[string]*tally)
	races := 0
	for date, race := range byDate {
		if date.Year() != latestYear {
			continue
		}
		races++
		for _, row := range RankEntries(race) {
			t, ok := totals[row.SkipperName]
			if !ok {
				t = &tally{}
				totals[row.SkipperName] = t
			}
			t.points += row.Points
			t.races++
		}
	}

	standings := make([]model.AnnualStanding, 0, len(totals))
	for skipper, t := range totals {
		standings = append(standings, model.AnnualStanding{
			Year:        latestYear,
			SkipperName: skipper,
			Points:      t.points,
			Races:       t.races,
		})
	}
	slices.SortFunc(standings, func(a, b model.AnnualStanding) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.SkipperName, b.SkipperName)
	})
	return Annual{Year: latestYear, Races: races, Standings: standings}, nil
}
