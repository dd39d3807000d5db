// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/pkg/logger"
)

// NoValidEntriesWarning is shown instead of a board when nothing can be ranked.
const NoValidEntriesWarning = "No valid entries found for the latest race. Check formatting or try re-entering a log."

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	WeeklyLeaderboard(ctx context.Context) (scoring.Weekly, error)
	AnnualStandings(ctx context.Context) (scoring.Annual, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	log  logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, log logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, log: log}
}

// HandleWeekly handles GET /leaderboard/weekly requests
func (h *LeaderboardHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_weekly"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	board, err := h.deps.WeeklyLeaderboard(r.Context())
	if err != nil && !errors.Is(err, scoring.ErrNoValidEntries) {
		h.log.Error(r.Context(), "weekly leaderboard failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", WrapKind(op, ErrLoadBoard, err))
		return
	}
	resp := toWeeklyBoard(board)
	if err != nil {
		resp.Warning = NoValidEntriesWarning
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAnnual handles GET /leaderboard/annual requests
func (h *LeaderboardHandler) HandleAnnual(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_annual"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	annual, err := h.deps.AnnualStandings(r.Context())
	if err != nil && !errors.Is(err, scoring.ErrNoValidEntries) {
		h.log.Error(r.Context(), "annual standings failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", WrapKind(op, ErrLoadBoard, err))
		return
	}
	resp := toAnnualBoard(annual)
	if err != nil {
		resp.Warning = NoValidEntriesWarning
	}
	writeJSON(w, http.StatusOK, resp)
}
