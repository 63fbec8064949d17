package api

import (
	"net/http"

	"phonedeal-be/internal/metrics"
)

// Stats are the counters shown on the metrics endpoint.
type Stats struct {
	Geocode *metrics.Geocode
	Search  *metrics.Search
}

type statsView struct {
	Geocode         metrics.GeocodeSnapshot `json:"geocode"`
	SearchPasses    uint64                  `json:"searchPasses"`
	SearchAverageMs float64                 `json:"searchAverageMs"`
	MapSessions     int                     `json:"mapSessions"`
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	var v statsView
	if h.stats.Geocode != nil {
		v.Geocode = h.stats.Geocode.Snapshot()
	}
	if h.stats.Search != nil {
		v.SearchPasses = h.stats.Search.Passes.Load()
		v.SearchAverageMs = float64(h.stats.Search.Average().Microseconds()) / 1000
	}
	if h.sessions != nil {
		v.MapSessions = h.sessions.Len()
	}
	writeOK(w, http.StatusOK, v)
}
