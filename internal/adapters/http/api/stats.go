// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"runtime"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests. Service counters are returned
// alongside the goroutine count.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	stats["goroutines"] = runtime.NumGoroutine()
	writeJSON(w, http.StatusOK, stats)
}
