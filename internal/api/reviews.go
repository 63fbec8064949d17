package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/review"
	"phonedeal-be/internal/utils"

	"go.uber.org/zap"
)

const maxReviewBody = 16 << 10

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	res, err := h.reviews.ListByStore(r.Context(), r.URL.Query().Get("store_id"))
	if errors.Is(err, review.ErrStoreIDRequired) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("list reviews failed",
			zap.String("handler", "ListReviews"), zap.Error(err))
		internalError(w)
		return
	}
	writeOK(w, http.StatusOK, res)
}

// CreateReview stores a review. A logged-in author replaces any user_id
// sent in the body.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in review.CreateInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReviewBody)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}

	if uid, ok := utils.GetUserIDFromContext(r.Context()); ok {
		in.UserID = utils.StrPtr(strconv.FormatUint(uint64(uid), 10))
	}

	rv, err := h.reviews.Create(r.Context(), in)
	switch {
	case err == nil:
		writeOK(w, http.StatusCreated, rv)
	case errors.Is(err, review.ErrStoreIDRequired),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrCommentTooLong):
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, review.ErrStoreNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	default:
		logger.FromCtx(r.Context()).Error("create review failed",
			zap.String("handler", "CreateReview"), zap.Error(err))
		internalError(w)
	}
}
