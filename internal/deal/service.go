package deal

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"

	"go.uber.org/zap"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type Service interface {
	GetDeals(ctx context.Context, modelSlug, storage string, sellerType seller.Type) ([]Offer, error)
	GetTopDeals(ctx context.Context, limit int, sellerType seller.Type) ([]Offer, error)
}

type service struct {
	phones  phone.Service
	sellers seller.Repository
	agg     *Aggregator
}

func NewService(phones phone.Service, sellers seller.Repository, agg *Aggregator) Service {
	if agg == nil {
		agg = NewAggregator()
	}
	return &service{phones: phones, sellers: sellers, agg: agg}
}

// GetDeals quotes one model variant at every seller of the given type
// (empty type = all), cheapest first.
func (s *service) GetDeals(
	ctx context.Context,
	modelSlug, storage string,
	sellerType seller.Type,
) ([]Offer, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Deal"),
		zap.String("method", "GetDeals"),
		zap.String("model_slug", modelSlug),
		zap.String("storage", storage),
		zap.String("seller_type", string(sellerType)),
	)

	start := time.Now()

	gb, ok := phone.ParseStorageGB(storage)
	if strings.TrimSpace(modelSlug) == "" || !ok {
		return nil, ErrMissingModelOrStorage
	}

	m, err := s.phones.GetBySlug(ctx, modelSlug)
	if err != nil {
		return nil, err
	}

	v, ok := m.Variant(phone.StorageLabel(gb))
	if !ok {
		return nil, ErrVariantNotFound
	}

	sellers, err := s.sellers.List(ctx, seller.ListOptions{Type: sellerType})
	if err != nil {
		log.Error("failed to list sellers", zap.Error(err))
		return nil, ErrFailedGetDeals
	}

	offers := s.agg.BuildOffers(*m, v, sellers)
	sortByPrice(offers)

	log.Info("get deals success",
		zap.Int("count", len(offers)),
		zap.Duration("duration", time.Since(start)),
	)
	return offers, nil
}

// GetTopDeals returns the cheapest offers across every model and variant.
func (s *service) GetTopDeals(
	ctx context.Context,
	limit int,
	sellerType seller.Type,
) ([]Offer, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Deal"),
		zap.String("method", "GetTopDeals"),
	)

	if limit <= 0 {
		limit = defaultTopLimit
	} else if limit > maxTopLimit {
		limit = maxTopLimit
	}

	models, err := s.phones.ListByBrands(ctx, phone.Brands)
	if err != nil {
		if errors.Is(err, phone.ErrInvalidBrand) {
			return nil, err
		}
		log.Error("failed to list models", zap.Error(err))
		return nil, ErrFailedGetDeals
	}

	sellers, err := s.sellers.List(ctx, seller.ListOptions{Type: sellerType})
	if err != nil {
		log.Error("failed to list sellers", zap.Error(err))
		return nil, ErrFailedGetDeals
	}

	offers := s.agg.Fanout(models, sellers, Selection{Mode: ScopeAll})
	sortByPrice(offers)

	if len(offers) > limit {
		offers = offers[:limit]
	}

	log.Debug("top deals computed", zap.Int("count", len(offers)), zap.Int("limit", limit))
	return offers, nil
}

func sortByPrice(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Price != offers[j].Price {
			return offers[i].Price < offers[j].Price
		}
		return offers[i].ID < offers[j].ID
	})
}
