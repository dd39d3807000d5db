// Package api declares HTTP contracts and route registration helpers.
package api

// This file converts domain results into the JSON shapes in domain/types.

import (
	"strconv"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/types"
)

func itoa(n int) string { return strconv.Itoa(n) }

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toReceipt(r model.Receipt) types.EntryReceipt {
	e := r.Entry
	return types.EntryReceipt{
		SubmissionID:  r.SubmissionID,
		RaceDate:      e.RaceDate.Format(model.DateLayout),
		SkipperName:   e.SkipperName,
		BoatName:      e.BoatName,
		BoatType:      e.BoatType,
		StartTime:     e.StartTime,
		FinishTime:    e.FinishTime,
		ElapsedTime:   model.FormatClock(e.Elapsed),
		CorrectedTime: model.FormatClock(e.Corrected),
		SubmittedAt:   formatTimestamp(e.SubmittedAt),
		Warnings:      r.Warnings,
		Message:       acceptedMessage,
	}
}

func toWeeklyBoard(w scoring.Weekly) types.WeeklyBoard {
	board := types.WeeklyBoard{
		FleetSize: w.FleetSize,
		Rows:      make([]types.BoardRow, len(w.Rows)),
	}
	if !w.RaceDate.IsZero() {
		board.RaceDate = w.RaceDate.Format(model.DateLayout)
	}
	for i, row := range w.Rows {
		board.Rows[i] = types.BoardRow{
			Position:      row.Position,
			SkipperName:   row.SkipperName,
			BoatName:      row.BoatName,
			BoatType:      row.BoatType,
			ElapsedTime:   model.FormatClock(row.Elapsed),
			CorrectedTime: model.FormatClock(row.Corrected),
			Points:        row.Points,
			SubmittedAt:   formatTimestamp(row.SubmittedAt),
		}
	}
	return board
}

func toAnnualBoard(a scoring.Annual) types.AnnualBoard {
	board := types.AnnualBoard{
		Year:      a.Year,
		Races:     a.Races,
		Standings: make([]types.Standing, len(a.Standings)),
	}
	for i, s := range a.Standings {
		board.Standings[i] = types.Standing{
			Position:    i + 1,
			SkipperName: s.SkipperName,
			Points:      s.Points,
			Races:       s.Races,
		}
	}
	return board
}
