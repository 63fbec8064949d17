package geocode

import (
	"context"
	"sort"
	"strings"
	"sync"

	"phonedeal-be/internal/logger"
	"phonedeal-be/internal/metrics"
	"phonedeal-be/internal/seller"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

// Resolver turns sellers into ResolvedSellers, looking up addresses for the
// ones without stored coordinates.
type Resolver struct {
	geocoder Geocoder
	cache    Cache
	limit    int
	stats    *metrics.Geocode
}

type Option func(*Resolver)

func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.limit = n
		}
	}
}

func WithMetrics(m *metrics.Geocode) Option {
	return func(r *Resolver) {
		if m != nil {
			r.stats = m
		}
	}
}

// NewResolver builds a resolver. A nil geocoder leaves sellers without
// stored coordinates unresolved; a nil cache means a fresh in-memory one.
func NewResolver(g Geocoder, c Cache, opts ...Option) *Resolver {
	if c == nil {
		c = NewMemoryCache(0)
	}
	r := &Resolver{
		geocoder: g,
		cache:    c,
		limit:    DefaultConcurrency,
		stats:    &metrics.Geocode{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Stats() metrics.GeocodeSnapshot {
	return r.stats.Snapshot()
}

// Partition splits sellers into those whose position is already known
// (stored or cached for this session) and those still needing a lookup.
// Sellers with a cached failure or without any address appear in neither.
func (r *Resolver) Partition(
	ctx context.Context,
	session string,
	sellers []seller.Seller,
) (located []ResolvedSeller, pending []seller.Seller) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Geocode"),
		zap.String("method", "Partition"),
	)

	for _, s := range sellers {
		if s.Coordinates != nil {
			located = append(located, ResolvedSeller{Seller: s, Position: *s.Coordinates})
			continue
		}
		if !s.HasAddress() {
			continue
		}

		e, ok, err := r.cache.Get(ctx, session, s.ID)
		if err != nil {
			log.Warn("geocode cache read failed", zap.String("seller_id", s.ID), zap.Error(err))
		}
		if !ok {
			pending = append(pending, s)
			continue
		}

		r.stats.CacheHits.Inc()
		if e.Failed {
			continue
		}
		located = append(located, ResolvedSeller{Seller: s, Position: e.Point})
	}
	return located, pending
}

// Resolve looks up every pending seller concurrently and waits for all of
// them. A failed lookup is cached for the session and the seller dropped;
// only cancellation of ctx fails the call.
func (r *Resolver) Resolve(
	ctx context.Context,
	session string,
	pending []seller.Seller,
) ([]ResolvedSeller, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("service", "Geocode"),
		zap.String("method", "Resolve"),
		zap.Int("pending", len(pending)),
	)

	if len(pending) == 0 {
		return nil, nil
	}
	if r.geocoder == nil {
		log.Debug("no geocoder configured, skipping lookups")
		return nil, nil
	}

	var (
		mu       sync.Mutex
		resolved []ResolvedSeller
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for _, s := range pending {
		g.Go(func() error {
			p, err := r.geocoder.Geocode(gctx, strings.TrimSpace(*s.Address))
			if err != nil {
				// only the caller's context abandons the pass; a provider
				// timeout is this seller's failure
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}

				r.stats.Failed.Inc()
				log.Warn("geocode failed, excluding seller",
					zap.String("seller_id", s.ID),
					zap.Error(err),
				)
				r.store(gctx, session, s.ID, Entry{Failed: true})
				return nil
			}

			r.stats.Resolved.Inc()
			r.store(gctx, session, s.ID, Entry{Point: p})

			mu.Lock()
			resolved = append(resolved, ResolvedSeller{Seller: s, Position: p})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Debug("geocode pass abandoned", zap.Error(err))
		return nil, err
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Seller.ID < resolved[j].Seller.ID
	})
	return resolved, nil
}

// Locate is Partition followed by Resolve.
func (r *Resolver) Locate(
	ctx context.Context,
	session string,
	sellers []seller.Seller,
) ([]ResolvedSeller, error) {
	located, pending := r.Partition(ctx, session, sellers)
	resolved, err := r.Resolve(ctx, session, pending)
	if err != nil {
		return nil, err
	}
	return append(located, resolved...), nil
}

func (r *Resolver) store(ctx context.Context, session, sellerID string, e Entry) {
	if err := r.cache.Set(ctx, session, sellerID, e); err != nil {
		logger.FromCtx(ctx).Warn("geocode cache write failed",
			zap.String("service", "Geocode"),
			zap.String("seller_id", sellerID),
			zap.Error(err),
		)
	}
}
