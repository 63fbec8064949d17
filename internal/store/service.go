package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/geocode"
	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/metrics"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
	"phonedeal-be/internal/transport"

	"go.uber.org/zap"
)

const anonymousSession = "anonymous"

// Service is the one nearby-store search path, shared by the HTTP API and
// the map controller regardless of the data source behind the repositories.
type Service interface {
	Search(ctx context.Context, scope Scope, opts ...SearchOption) ([]BestOffer, error)
}

// SearchConfig is the resolved form of a Search call's options.
type SearchConfig struct {
	Partial func([]BestOffer)
}

type SearchOption func(*SearchConfig)

// WithPartial receives the result over already-located stores while address
// lookups are still outstanding. It is not called when nothing is pending.
func WithPartial(fn func([]BestOffer)) SearchOption {
	return func(c *SearchConfig) {
		c.Partial = fn
	}
}

func ResolveOptions(opts ...SearchOption) SearchConfig {
	var cfg SearchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

type service struct {
	phones   phone.Service
	sellers  seller.Repository
	agg      *deal.Aggregator
	resolver *geocode.Resolver
	engine   *Engine
	now      func() time.Time
	stats    *metrics.Search
}

type ServiceOption func(*service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSearchMetrics(m *metrics.Search) ServiceOption {
	return func(s *service) {
		if m != nil {
			s.stats = m
		}
	}
}

func NewService(
	phones phone.Service,
	sellers seller.Repository,
	agg *deal.Aggregator,
	resolver *geocode.Resolver,
	engine *Engine,
	opts ...ServiceOption,
) Service {
	if agg == nil {
		agg = deal.NewAggregator()
	}
	if resolver == nil {
		resolver = geocode.NewResolver(nil, nil)
	}
	if engine == nil {
		engine = NewEngine()
	}

	s := &service{
		phones:   phones,
		sellers:  sellers,
		agg:      agg,
		resolver: resolver,
		engine:   engine,
		now:      time.Now,
		stats:    &metrics.Search{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Search(ctx context.Context, scope Scope, opts ...SearchOption) ([]BestOffer, error) {
	timer := metrics.StartTimer()

	cfg := ResolveOptions(opts...)

	session := transport.SessionFrom(ctx)
	if session == "" {
		session = anonymousSession
	}

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Store"),
		zap.String("method", "Search"),
		zap.String("mode", string(scope.Mode)),
		zap.Bool("bounds_only", scope.BoundsMode()),
	)

	if !scope.Center.Valid() {
		return nil, ErrMissingLocation
	}

	models, err := s.modelsInScope(ctx, scope)
	if err != nil {
		log.Error("failed to load models", zap.Error(err))
		return nil, ErrFailedSearch
	}

	sellers, err := s.sellers.List(ctx, seller.ListOptions{Type: seller.TypeOffline})
	if err != nil {
		log.Error("failed to list sellers", zap.Error(err))
		return nil, ErrFailedSearch
	}

	offers := s.agg.Fanout(models, sellers, scope.Selection())
	if len(offers) == 0 {
		log.Debug("no offers in scope")
		return []BestOffer{}, nil
	}

	located, pending := s.resolver.Partition(ctx, session, sellers)
	positions := make(map[string]geo.Point, len(located)+len(pending))
	for _, rs := range located {
		positions[rs.Seller.ID] = rs.Position
	}

	now := s.now()

	if len(pending) > 0 && cfg.Partial != nil {
		cfg.Partial(s.engine.Compute(offers, positions, scope, now))
	}

	resolved, err := s.resolver.Resolve(ctx, session, pending)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		log.Error("address resolution failed", zap.Error(err))
		return nil, ErrFailedSearch
	}
	for _, rs := range resolved {
		positions[rs.Seller.ID] = rs.Position
	}

	result := s.engine.Compute(offers, positions, scope, now)

	s.stats.Observe(timer.Duration())
	log.Info("nearby search completed",
		zap.Int("offers", len(offers)),
		zap.Int("pending_lookups", len(pending)),
		zap.Int("results", len(result)),
		zap.Duration("duration", timer.Duration()),
	)
	return result, nil
}

// modelsInScope loads every model of the enabled brands, or just the
// selected one in single mode.
func (s *service) modelsInScope(ctx context.Context, scope Scope) ([]phone.Model, error) {
	if scope.Mode == deal.ScopeSingle {
		slug := strings.TrimSpace(scope.ModelSlug)
		if slug == "" {
			return nil, nil
		}
		m, err := s.phones.GetBySlug(ctx, slug)
		if errors.Is(err, phone.ErrModelNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []phone.Model{*m}, nil
	}
	return s.phones.ListByBrands(ctx, scope.Brands.Enabled())
}
