package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/internal/domain/validation"
)

// Expected holds the boards a server should show for a season.
type Expected struct {
	Weekly   scoring.Weekly
	Annual   scoring.Annual
	Rejected int
}

// Expect scores reqs locally with the same rules and ratings the server
// uses. Requests the rules reject are counted and skipped.
func Expect(reqs []types.EntryRequest, table *ratings.Table, rules validation.Rules) (Expected, error) {
	engine := scoring.NewEngine(table)
	base := time.Now().UTC()

	var exp Expected
	entries := make([]model.RaceEntry, 0, len(reqs))
	for i, req := range reqs {
		checked, err := rules.Validate(model.Submission{
			SubmissionID: req.SubmissionID,
			RaceDate:     req.RaceDate,
			BoatName:     req.BoatName,
			SkipperName:  req.SkipperName,
			BoatType:     req.BoatType,
			StartTime:    req.StartTime,
			FinishTime:   req.FinishTime,
		}, table)
		if err != nil {
			exp.Rejected++
			continue
		}
		corrected, _ := engine.CorrectedTime(checked.Elapsed, checked.BoatType)
		entries = append(entries, model.RaceEntry{
			RaceDate:    checked.RaceDate,
			BoatName:    checked.BoatName,
			SkipperName: checked.SkipperName,
			BoatType:    checked.BoatType,
			StartTime:   checked.StartTime,
			FinishTime:  checked.FinishTime,
			Elapsed:     checked.Elapsed,
			Corrected:   corrected,
			SubmittedAt: base.Add(time.Duration(i) * time.Millisecond),
		})
	}

	var err error
	if exp.Weekly, err = scoring.WeeklyLeaderboard(entries); err != nil {
		return exp, fmt.Errorf("weekly: %w", err)
	}
	if exp.Annual, err = scoring.AnnualStandings(entries); err != nil {
		return exp, fmt.Errorf("annual: %w", err)
	}
	return exp, nil
}

// Verify compares the server's boards with exp. Every difference is
// reported; the result wraps ErrMismatch.
func Verify(exp Expected, weekly types.WeeklyBoard, annual types.AnnualBoard) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrMismatch}, args...)...))
	}

	if want := exp.Weekly.RaceDate.Format(model.DateLayout); weekly.RaceDate != want {
		add("weekly race date %q, want %q", weekly.RaceDate, want)
	}
	if weekly.FleetSize != exp.Weekly.FleetSize {
		add("weekly fleet size %d, want %d", weekly.FleetSize, exp.Weekly.FleetSize)
	}
	for i, want := range exp.Weekly.Rows {
		if i >= len(weekly.Rows) {
			add("weekly row %d missing", i+1)
			continue
		}
		got := weekly.Rows[i]
		if got.SkipperName != want.SkipperName || got.Points != want.Points ||
			got.CorrectedTime != model.FormatClock(want.Corrected) {
			add("weekly row %d is %s/%s/%d, want %s/%s/%d", i+1,
				got.SkipperName, got.CorrectedTime, got.Points,
				want.SkipperName, model.FormatClock(want.Corrected), want.Points)
		}
	}

	if annual.Year != exp.Annual.Year {
		add("annual year %d, want %d", annual.Year, exp.Annual.Year)
	}
	if annual.Races != exp.Annual.Races {
		add("annual races %d, want %d", annual.Races, exp.Annual.Races)
	}
	totals := make(map[string]int, len(annual.Standings))
	for _, s := range annual.Standings {
		totals[s.SkipperName] = s.Points
	}
	for _, want := range exp.Annual.Standings {
		if got, ok := totals[want.SkipperName]; !ok || got != want.Points {
			add("annual total for %s is %d, want %d", want.SkipperName, got, want.Points)
		}
	}
	return errors.Join(errs...)
}
