package api

import (
	"errors"
	"net/http"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
	"phonedeal-be/internal/utils"

	"go.uber.org/zap"
)

func (h *Handler) GetDeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offers, err := h.deals.GetDeals(r.Context(),
		q.Get("model_slug"),
		q.Get("storage"),
		seller.ParseTypeFilter(q.Get("seller_type")),
	)
	switch {
	case err == nil:
		writeOK(w, http.StatusOK, offers)
	case errors.Is(err, deal.ErrMissingModelOrStorage):
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, phone.ErrModelNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, "model not found")
	case errors.Is(err, deal.ErrVariantNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		logger.FromCtx(r.Context()).Error("get deals failed",
			zap.String("handler", "GetDeals"), zap.Error(err))
		internalError(w)
	}
}

func (h *Handler) GetTopDeals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offers, err := h.deals.GetTopDeals(r.Context(),
		utils.ParseIntOr(q.Get("limit"), 0),
		seller.ParseTypeFilter(q.Get("seller_type")),
	)
	if err != nil {
		logger.FromCtx(r.Context()).Error("get top deals failed",
			zap.String("handler", "GetTopDeals"), zap.Error(err))
		internalError(w)
		return
	}
	writeOK(w, http.StatusOK, offers)
}
