package api

import (
	"context"
	"net/http"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/mapsync"
	"phonedeal-be/internal/naver"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/review"
	"phonedeal-be/internal/store"
)

// MapConfigLoader hands out the map bootstrap data.
type MapConfigLoader interface {
	Load(ctx context.Context) (*naver.MapHandle, error)
}

type Deps struct {
	Phones   phone.Service
	Deals    deal.Service
	Stores   store.Service
	Reviews  review.Service
	Maps     MapConfigLoader
	Sessions *mapsync.Registry
	Stats    Stats

	// NearbyGuard wraps the location-based endpoints, e.g. to require login.
	NearbyGuard func(http.Handler) http.Handler
}

type Handler struct {
	phones   phone.Service
	deals    deal.Service
	stores   store.Service
	reviews  review.Service
	maps     MapConfigLoader
	sessions *mapsync.Registry
	stats    Stats
	guard    func(http.Handler) http.Handler
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		phones:   d.Phones,
		deals:    d.Deals,
		stores:   d.Stores,
		reviews:  d.Reviews,
		maps:     d.Maps,
		sessions: d.Sessions,
		stats:    d.Stats,
		guard:    d.NearbyGuard,
	}
	if h.guard == nil {
		h.guard = func(next http.Handler) http.Handler { return next }
	}
	if h.sessions == nil && h.stores != nil {
		h.sessions = mapsync.NewRegistry(h.stores, 0)
	}
	return h
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/v1/metrics", h.Metrics)

	mux.HandleFunc("GET /api/v1/models", h.ListModels)
	mux.HandleFunc("GET /api/v1/models/{slug}", h.GetModel)

	mux.HandleFunc("GET /api/v1/deals", h.GetDeals)
	mux.HandleFunc("GET /api/v1/deals/top", h.GetTopDeals)

	mux.Handle("GET /api/v1/stores/nearby", h.guard(http.HandlerFunc(h.NearbyStores)))

	mux.HandleFunc("GET /api/v1/reviews", h.ListReviews)
	mux.HandleFunc("POST /api/v1/reviews", h.CreateReview)

	mux.HandleFunc("GET /api/v1/map/config", h.MapConfig)

	mux.Handle("GET /api/v1/map/session", h.guard(http.HandlerFunc(h.GetMapSession)))
	mux.Handle("POST /api/v1/map/session/locate", h.guard(http.HandlerFunc(h.LocateMapSession)))
	mux.Handle("POST /api/v1/map/session/viewport", h.guard(http.HandlerFunc(h.MoveMapSession)))
	mux.Handle("PUT /api/v1/map/session/query", h.guard(http.HandlerFunc(h.QueryMapSession)))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]string{"status": "OK"})
}
