// Package validation applies the race-night business rules to a submission
// before anything is scored or stored.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
)

// Reason identifies which rule a submission broke. Reasons double as API
// error codes and metric labels.
type Reason string

const (
	ReasonMissingField        Reason = "missing_field"
	ReasonInvalidDate         Reason = "invalid_date"
	ReasonInvalidTime         Reason = "invalid_time"
	ReasonNotRaceDay          Reason = "not_friday"
	ReasonStartTooEarly       Reason = "start_too_early"
	ReasonStartOutsideWindow  Reason = "start_outside_window"
	ReasonFinishOutsideWindow Reason = "finish_outside_window"
	ReasonFinishBeforeStart   Reason = "finish_before_start"
	ReasonUnknownBoatType     Reason = "unknown_boat_type"
)

// Error is a rejected submission.
type Error struct {
	Reason  Reason
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is lets errors.Is match any *Error against ErrInvalidSubmission.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidSubmission
}

func reject(reason Reason, field, format string, args ...any) *Error {
	return &Error{Reason: reason, Field: field, Message: fmt.Sprintf(format, args...)}
}

// BoatCatalog is the subset of the ratings table the rules need.
type BoatCatalog interface {
	Known(boatType string) bool
	Canonical(boatType string) string
}

// Rules holds the race-night constraints. Clock values are offsets from
// midnight.
type Rules struct {
	Weekday         time.Weekday
	StartAfter      time.Duration // start must be strictly later
	LatestStart     time.Duration
	LatestFinish    time.Duration
	StrictBoatTypes bool
}

// DefaultRules returns the Friday evening rules: start after 17:59 and no
// later than 20:00, finish no later than 21:59.
func DefaultRules() Rules {
	return Rules{
		Weekday:      time.Friday,
		StartAfter:   17*time.Hour + 59*time.Minute,
		LatestStart:  20 * time.Hour,
		LatestFinish: 21*time.Hour + 59*time.Minute,
	}
}

// ParseRules builds Rules from configuration strings.
func ParseRules(weekday, startAfter, latestStart, latestFinish string, strict bool) (Rules, error) {
	day, err := ParseWeekday(weekday)
	if err != nil {
		return Rules{}, err
	}
	r := Rules{Weekday: day, StrictBoatTypes: strict}
	for _, c := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"start_after", startAfter, &r.StartAfter},
		{"latest_start", latestStart, &r.LatestStart},
		{"latest_finish", latestFinish, &r.LatestFinish},
	} {
		if *c.dst, err = model.ParseClock(c.raw); err != nil {
			return Rules{}, fmt.Errorf("%s %q: %w", c.name, c.raw, err)
		}
	}
	if r.LatestStart <= r.StartAfter {
		return Rules{}, fmt.Errorf("%w: latest_start must be after start_after", ErrBadRules)
	}
	if r.LatestFinish <= r.StartAfter {
		return Rules{}, fmt.Errorf("%w: latest_finish must be after start_after", ErrBadRules)
	}
	return r, nil
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrBadRules, s)
}

// Checked is a submission that passed every rule.
type Checked struct {
	RaceDate      time.Time
	BoatName      string
	SkipperName   string
	BoatType      string // table spelling when listed
	KnownBoatType bool
	StartTime     string // HH:MM
	FinishTime    string // HH:MM
	Elapsed       time.Duration
	Comments      string
}

// Validate checks sub against the rules. The first broken rule is returned
// as an *Error; rules are evaluated in the order a sailor fills the form.
func (r Rules) Validate(sub model.Submission, boats BoatCatalog) (Checked, error) {
	skipper := strings.TrimSpace(sub.SkipperName)
	boatType := strings.TrimSpace(sub.BoatType)
	switch {
	case strings.TrimSpace(sub.RaceDate) == "":
		return Checked{}, reject(ReasonMissingField, "race_date", "Race date is required.")
	case skipper == "":
		return Checked{}, reject(ReasonMissingField, "skipper_name", "Skipper name is required.")
	case boatType == "":
		return Checked{}, reject(ReasonMissingField, "boat_type", "Boat type is required.")
	case strings.TrimSpace(sub.StartTime) == "":
		return Checked{}, reject(ReasonMissingField, "start_time", "Start time is required.")
	case strings.TrimSpace(sub.FinishTime) == "":
		return Checked{}, reject(ReasonMissingField, "finish_time", "Finish time is required.")
	}

	date, err := model.ParseDate(strings.TrimSpace(sub.RaceDate))
	if err != nil {
		return Checked{}, reject(ReasonInvalidDate, "race_date", "Race date %q is not a YYYY-MM-DD date.", sub.RaceDate)
	}
	if date.Weekday() != r.Weekday {
		return Checked{}, reject(ReasonNotRaceDay, "race_date", "Race date must be a %s.", r.Weekday)
	}

	start, err := model.ParseClock(sub.StartTime)
	if err != nil {
		return Checked{}, reject(ReasonInvalidTime, "start_time", "Start time %q is not HH:MM.", sub.StartTime)
	}
	finish, err := model.ParseClock(sub.FinishTime)
	if err != nil {
		return Checked{}, reject(ReasonInvalidTime, "finish_time", "Finish time %q is not HH:MM.", sub.FinishTime)
	}

	if start <= r.StartAfter {
		return Checked{}, reject(ReasonStartTooEarly, "start_time", "Start time must be after %s.", model.ClockString(r.StartAfter))
	}
	if start > r.LatestStart {
		return Checked{}, reject(ReasonStartOutsideWindow, "start_time", "Start time must be no later than %s.", model.ClockString(r.LatestStart))
	}
	if finish <= start {
		return Checked{}, reject(ReasonFinishBeforeStart, "finish_time", "Finish time must be after the start time.")
	}
	if finish > r.LatestFinish {
		return Checked{}, reject(ReasonFinishOutsideWindow, "finish_time", "Finish time must be no later than %s.", model.ClockString(r.LatestFinish))
	}

	known := boats != nil && boats.Known(boatType)
	if known {
		boatType = boats.Canonical(boatType)
	} else if r.StrictBoatTypes {
		return Checked{}, reject(ReasonUnknownBoatType, "boat_type", "Boat type %q is not in the Portsmouth table.", boatType)
	}

	return Checked{
		RaceDate:      date,
		BoatName:      strings.TrimSpace(sub.BoatName),
		SkipperName:   skipper,
		BoatType:      boatType,
		KnownBoatType: known,
		StartTime:     model.ClockString(start),
		FinishTime:    model.ClockString(finish),
		Elapsed:       finish - start,
		Comments:      strings.TrimSpace(sub.Comments),
	}, nil
}
