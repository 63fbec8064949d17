package review

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/seller"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ListByStore(ctx context.Context, storeID string) ([]Review, error)
	Create(ctx context.Context, in CreateInput) (*Review, error)
}

type service struct {
	repo    Repository
	sellers seller.Repository
}

// NewService builds the review service. When sellers is non-nil, reviews for
// unknown stores are rejected.
func NewService(repo Repository, sellers seller.Repository) Service {
	return &service{repo: repo, sellers: sellers}
}

func (s *service) ListByStore(ctx context.Context, storeID string) ([]Review, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}

	res, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list reviews",
			zap.String("service", "Review"),
			zap.String("store_id", storeID),
			zap.Error(err),
		)
		return nil, ErrFailedListReviews
	}
	return res, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Review"),
		zap.String("method", "Create"),
	)

	rv, err := validate(in)
	if err != nil {
		log.Warn("invalid review", zap.Error(err))
		return nil, err
	}

	if s.sellers != nil {
		if _, err := s.sellers.GetByID(ctx, rv.StoreID); err != nil {
			if errors.Is(err, seller.ErrSellerNotFound) {
				return nil, ErrStoreNotFound
			}
			log.Error("failed to check store", zap.Error(err))
			return nil, ErrFailedCreateReview
		}
	}

	rv.ID = uuid.NewString()
	if err := s.repo.Create(ctx, rv); err != nil {
		log.Error("failed to save review", zap.Error(err))
		return nil, ErrFailedCreateReview
	}

	log.Info("review saved",
		zap.String("review_id", rv.ID),
		zap.String("store_id", rv.StoreID),
		zap.Int("rating", rv.Rating),
	)
	return rv, nil
}

func validate(in CreateInput) (*Review, error) {
	storeID := strings.TrimSpace(in.StoreID)
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, ErrInvalidRating
	}

	rv := &Review{StoreID: storeID, Rating: in.Rating}

	if in.UserID != nil {
		if u := strings.TrimSpace(*in.UserID); u != "" {
			rv.UserID = &u
		}
	}
	if in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		if utf8.RuneCountInString(c) > MaxCommentLength {
			return nil, ErrCommentTooLong
		}
		if c != "" {
			rv.Comment = &c
		}
	}
	return rv, nil
}
