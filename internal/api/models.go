package api

import (
	"errors"
	"net/http"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/phone"

	"go.uber.org/zap"
)

type modelView struct {
	phone.Model
	AveragePrice int64 `json:"averagePrice"`
}

func toModelView(m phone.Model) modelView {
	return modelView{Model: m, AveragePrice: m.AveragePrice()}
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.phones.ListByBrand(r.Context(), r.URL.Query().Get("brand"))
	if errors.Is(err, phone.ErrInvalidBrand) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("list models failed",
			zap.String("handler", "ListModels"), zap.Error(err))
		internalError(w)
		return
	}

	out := make([]modelView, 0, len(models))
	for _, m := range models {
		out = append(out, toModelView(m))
	}
	writeOK(w, http.StatusOK, out)
}

func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	m, err := h.phones.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, phone.ErrModelNotFound) {
		writeError(w, http.StatusNotFound, CodeNotFound, "model not found")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("get model failed",
			zap.String("handler", "GetModel"), zap.Error(err))
		internalError(w)
		return
	}
	writeOK(w, http.StatusOK, toModelView(*m))
}
