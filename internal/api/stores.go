package api

import (
	"context"
	"errors"
	"net/http"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/mapsync"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/utils"

	"go.uber.org/zap"
)

type nearbyResponse struct {
	Center       geo.Point         `json:"center"`
	RadiusMeters int               `json:"radiusMeters,omitempty"`
	Bounds       *geo.Bounds       `json:"bounds,omitempty"`
	Count        int               `json:"count"`
	Stores       []store.BestOffer `json:"stores"`
}

// NearbyStores answers one search pass. Scope parameters use the same names
// as the map page URL; lat and lng are required.
func (h *Handler) NearbyStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, okLat := utils.ParseFloat(q.Get("lat"))
	lng, okLng := utils.ParseFloat(q.Get("lng"))
	if !okLat || !okLng {
		writeError(w, http.StatusBadRequest, CodeBadRequest, store.ErrMissingLocation.Error())
		return
	}

	qs := mapsync.ParseQuery(q)
	scope := qs.Scope
	scope.Center = geo.Point{Lat: lat, Lng: lng}

	if qs.BoundsOnly {
		b, ok := parseBounds(q.Get)
		if !ok {
			writeError(w, http.StatusBadRequest, CodeBadRequest,
				"swLat, swLng, neLat and neLng are required when boundsOnly is set")
			return
		}
		scope.Bounds = &b
	}

	res, err := h.stores.Search(r.Context(), scope)
	if err != nil {
		h.searchFailed(w, r, err)
		return
	}

	resp := nearbyResponse{Center: scope.Center, Bounds: scope.Bounds, Count: len(res), Stores: res}
	if !scope.BoundsMode() {
		resp.RadiusMeters = scope.RadiusMeters
	}
	writeOK(w, http.StatusOK, resp)
}

func (h *Handler) searchFailed(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromCtx(r.Context()).With(zap.String("handler", "NearbyStores"))

	switch {
	case errors.Is(err, store.ErrMissingLocation):
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, mapsync.ErrStalePass):
		writeError(w, http.StatusConflict, CodeConflict, "superseded by a newer request")
	case errors.Is(err, context.Canceled):
		log.Debug("client went away")
	default:
		log.Error("nearby search failed", zap.Error(err))
		internalError(w)
	}
}

func parseBounds(get func(string) string) (geo.Bounds, bool) {
	swLat, ok1 := utils.ParseFloat(get("swLat"))
	swLng, ok2 := utils.ParseFloat(get("swLng"))
	neLat, ok3 := utils.ParseFloat(get("neLat"))
	neLng, ok4 := utils.ParseFloat(get("neLng"))
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return geo.Bounds{}, false
	}

	b := geo.Bounds{
		SouthWest: geo.Point{Lat: swLat, Lng: swLng},
		NorthEast: geo.Point{Lat: neLat, Lng: neLng},
	}
	if !b.SouthWest.Valid() || !b.NorthEast.Valid() {
		return geo.Bounds{}, false
	}
	return b, true
}
