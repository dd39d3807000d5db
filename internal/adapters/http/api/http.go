// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/pkg/logger"
)

// maxBodyBytes caps a submission body.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EntryDependencies
	LeaderboardDependencies
	CatalogDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	entriesHandler     *EntriesHandler
	leaderboardHandler *LeaderboardHandler
	boatTypesHandler   *BoatTypesHandler
	scoringHandler     *ScoringHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	log := logger.Named("api")
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		entriesHandler:     NewEntriesHandler(deps, log),
		leaderboardHandler: NewLeaderboardHandler(deps, log),
		boatTypesHandler:   NewBoatTypesHandler(deps),
		scoringHandler:     NewScoringHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/entries", MetricsMiddleware(s.entriesHandler.HandlePostEntry, "entries"))
	mux.HandleFunc("/leaderboard/weekly", MetricsMiddleware(s.leaderboardHandler.HandleWeekly, "leaderboard_weekly"))
	mux.HandleFunc("/leaderboard/annual", MetricsMiddleware(s.leaderboardHandler.HandleAnnual, "leaderboard_annual"))
	mux.HandleFunc("/boat-types", MetricsMiddleware(s.boatTypesHandler.HandleBoatTypes, "boat_types"))
	mux.HandleFunc("/scoring", MetricsMiddleware(s.scoringHandler.HandleScoring, "scoring"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = publicMessage(err)
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}
