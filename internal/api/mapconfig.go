package api

import (
	"errors"
	"net/http"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/naver"

	"go.uber.org/zap"
)

// MapConfig returns the map bootstrap data, or a banner code telling the
// client why the map cannot load.
func (h *Handler) MapConfig(w http.ResponseWriter, r *http.Request) {
	if h.maps == nil {
		writeError(w, http.StatusServiceUnavailable, CodeMapUnavailable, "map is not configured")
		return
	}

	handle, err := h.maps.Load(r.Context())
	if err == nil {
		writeOK(w, http.StatusOK, handle)
		return
	}

	log := logger.FromCtx(r.Context()).With(zap.String("handler", "MapConfig"))

	switch {
	case errors.Is(err, naver.ErrMapAuthFailed):
		log.Error("map authentication failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, CodeMapAuthFailed,
			"map authentication failed, check the client id and allowed domains")
	case errors.Is(err, naver.ErrMapLoadTimeout):
		log.Warn("map load timed out", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, CodeMapLoadTimeout,
			"map took too long to load, try again")
	default:
		log.Error("map unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, CodeMapUnavailable, "map is unavailable")
	}
}
