package store

import (
	"sort"
	"time"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/seller"
)

// MaxResults caps a nearby-store response.
const MaxResults = 300

// BestOffer is the cheapest qualifying offer of one physical store.
type BestOffer struct {
	Seller         seller.Seller `json:"store"`
	Coordinates    geo.Point     `json:"coordinates"`
	Offer          deal.Offer    `json:"bestDeal"`
	DistanceMeters int           `json:"distanceMeters"`
}

// Engine reduces offers to at most one BestOffer per offline store.
// Compute is pure: the same inputs always give the same output.
type Engine struct {
	maxResults int
	loc        *time.Location
}

type EngineOption func(*Engine)

func WithMaxResults(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithLocation sets the zone business hours are written in.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{maxResults: MaxResults, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute groups offers by offline seller, keeps each seller's cheapest
// offer and applies the scope's geometry, price, rating and open-now
// filters. Sellers need coordinates, either their own or from located.
// Results are ordered by distance from the scope center, then seller id.
func (e *Engine) Compute(
	offers []deal.Offer,
	located map[string]geo.Point,
	scope Scope,
	now time.Time,
) []BestOffer {

	best := make(map[string]deal.Offer)
	for _, o := range offers {
		if o.Seller.Type != seller.TypeOffline {
			continue
		}
		cur, ok := best[o.SellerID]
		if !ok || cheaper(o, cur) {
			best[o.SellerID] = o
		}
	}

	local := now.In(e.loc)
	out := make([]BestOffer, 0, len(best))

	for _, o := range best {
		pos, ok := position(o.Seller, located)
		if !ok {
			continue
		}

		dist := geo.Distance(scope.Center, pos)
		if scope.BoundsMode() {
			if !scope.Bounds.Contains(pos) {
				continue
			}
		} else if dist > scope.RadiusMeters {
			continue
		}

		if !scope.priceAllowed(o.Price) {
			continue
		}
		if o.Seller.RatingOrZero() < scope.MinRating {
			continue
		}
		if scope.OpenNow && !IsOpenAt(o.Seller.BusinessHours, local) {
			continue
		}

		out = append(out, BestOffer{
			Seller:         o.Seller,
			Coordinates:    pos,
			Offer:          o,
			DistanceMeters: dist,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceMeters != out[j].DistanceMeters {
			return out[i].DistanceMeters < out[j].DistanceMeters
		}
		return out[i].Seller.ID < out[j].Seller.ID
	})

	if len(out) > e.maxResults {
		out = out[:e.maxResults]
	}
	return out
}

// cheaper orders offers by price, then model slug, storage and id so the
// pick among equal prices is stable.
func cheaper(a, b deal.Offer) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Model.Slug != b.Model.Slug {
		return a.Model.Slug < b.Model.Slug
	}
	if a.Variant.Storage != b.Variant.Storage {
		return a.Variant.Storage < b.Variant.Storage
	}
	return a.ID < b.ID
}

func position(s seller.Seller, located map[string]geo.Point) (geo.Point, bool) {
	if s.Coordinates != nil {
		return *s.Coordinates, true
	}
	p, ok := located[s.ID]
	return p, ok
}
