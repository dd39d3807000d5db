package api

import (
	"net/http"

	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/internal/domain/validation"
)

// CatalogDependencies exposes the reference data behind the entry form.
type CatalogDependencies interface {
	BoatTypes() []ratings.Rating
	DefaultRating() float64
	Rules() validation.Rules
}

// BoatTypesHandler lists the Portsmouth table.
type BoatTypesHandler struct {
	deps CatalogDependencies
}

// NewBoatTypesHandler creates a new boat types handler.
func NewBoatTypesHandler(deps CatalogDependencies) *BoatTypesHandler {
	return &BoatTypesHandler{deps: deps}
}

// HandleBoatTypes handles GET /boat-types requests.
func (h *BoatTypesHandler) HandleBoatTypes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	table := h.deps.BoatTypes()
	out := make([]types.BoatType, len(table))
	for i, b := range table {
		out[i] = types.BoatType{Name: b.Name, Rating: b.Rating, Multiplier: b.Multiplier()}
	}
	writeJSON(w, http.StatusOK, out)
}

// ScoringHandler describes how races are scored.
type ScoringHandler struct {
	deps CatalogDependencies
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(deps CatalogDependencies) *ScoringHandler {
	return &ScoringHandler{deps: deps}
}

// HandleScoring handles GET /scoring requests.
func (h *ScoringHandler) HandleScoring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rules := h.deps.Rules()
	writeJSON(w, http.StatusOK, types.ScoringRules{
		RaceDay:       rules.Weekday.String(),
		StartAfter:    model.ClockString(rules.StartAfter),
		LatestStart:   model.ClockString(rules.LatestStart),
		LatestFinish:  model.ClockString(rules.LatestFinish),
		DefaultRating: h.deps.DefaultRating(),
		StrictTypes:   rules.StrictBoatTypes,
		PointsTable:   pointsTable(),
		Instructions: []string{
			"Ensure the entry is dated for the " + rules.Weekday.String() + ".",
			"Provide start and finish times as HH:MM.",
			"Your result will appear on the weekly leaderboard.",
			"If no new entry is submitted this week, the last race's results will continue to show.",
			"Races are ranked by corrected time: elapsed time multiplied by 100 / Portsmouth rating.",
		},
	})
}

// pointsTable renders the points row of each distinct fleet size.
func pointsTable() []types.PointsRow {
	rows := make([]types.PointsRow, 0, 4)
	for _, fleet := range []int{1, 2, 3, 4} {
		row := types.PointsRow{FleetSize: itoa(fleet)}
		if fleet == 4 {
			row.FleetSize = "4+"
		}
		for rank := range fleet {
			row.Points = append(row.Points, scoring.AssignPoints(rank, fleet))
		}
		rows = append(rows, row)
	}
	return rows
}
