package phone

import (
	"context"
	"errors"
	"strings"

	"phonedeal-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListByBrand(ctx context.Context, brand string) ([]Model, error)
	ListByBrands(ctx context.Context, brands []Brand) ([]Model, error)
	GetBySlug(ctx context.Context, slug string) (*Model, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListByBrand(ctx context.Context, brand string) ([]Model, error) {
	b, err := ParseBrand(brand)
	if err != nil {
		return nil, err
	}
	return s.ListByBrands(ctx, []Brand{b})
}

// ListByBrands returns the models of every listed brand, in brand order.
func (s *service) ListByBrands(ctx context.Context, brands []Brand) ([]Model, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("service", "Phone"),
		zap.String("method", "ListByBrands"),
	)

	if len(brands) == 0 {
		return []Model{}, nil
	}

	manufacturers := make([]string, 0, len(brands))
	for _, b := range brands {
		mfg := b.Manufacturer()
		if mfg == "" {
			return nil, ErrInvalidBrand
		}
		manufacturers = append(manufacturers, mfg)
	}

	models, err := s.repo.ListByManufacturers(ctx, manufacturers)
	if err != nil {
		log.Error("failed to list models", zap.Error(err))
		return nil, ErrFailedGetModel
	}

	ordered := make([]Model, 0, len(models))
	for _, mfg := range manufacturers {
		for _, m := range models {
			if strings.EqualFold(m.Manufacturer, mfg) {
				ordered = append(ordered, m)
			}
		}
	}

	log.Debug("models listed", zap.Int("count", len(ordered)))
	return ordered, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Model, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrModelNotFound
	}

	m, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrModelNotFound) {
			return nil, err
		}
		logger.FromCtx(ctx).Error("failed to get model",
			zap.String("service", "Phone"),
			zap.String("slug", slug),
			zap.Error(err),
		)
		return nil, ErrFailedGetModel
	}
	return m, nil
}
