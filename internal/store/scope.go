package store

import (
	"strings"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/phone"
)

const DefaultRadius = 1000

// DefaultCenter is Seoul City Hall, used when no location is available.
var DefaultCenter = geo.Point{Lat: 37.5665, Lng: 126.9780}

type BrandFilter struct {
	Galaxy bool `json:"galaxy"`
	IPhone bool `json:"iphone"`
}

// Enabled lists the brands switched on, in display order.
func (f BrandFilter) Enabled() []phone.Brand {
	var out []phone.Brand
	if f.Galaxy {
		out = append(out, phone.BrandGalaxy)
	}
	if f.IPhone {
		out = append(out, phone.BrandIPhone)
	}
	return out
}

// Scope is the set of filters governing one search pass. It is never stored.
type Scope struct {
	Brands       BrandFilter
	Mode         deal.ScopeMode
	ModelSlug    string
	Storage      string
	Center       geo.Point
	RadiusMeters int
	// Bounds switches geometry from radius to viewport mode when set.
	Bounds    *geo.Bounds
	MinPrice  int64
	MaxPrice  int64
	MinRating float64
	OpenNow   bool
}

// DefaultScope searches every brand within DefaultRadius of Seoul City Hall.
func DefaultScope() Scope {
	return Scope{
		Brands:       BrandFilter{Galaxy: true, IPhone: true},
		Mode:         deal.ScopeAll,
		Center:       DefaultCenter,
		RadiusMeters: DefaultRadius,
	}
}

func (s Scope) BoundsMode() bool {
	return s.Bounds != nil
}

func (s Scope) Selection() deal.Selection {
	return deal.Selection{Mode: s.Mode, ModelSlug: strings.TrimSpace(s.ModelSlug), Storage: s.Storage}
}

// priceAllowed applies the band; a zero bound leaves that side open.
func (s Scope) priceAllowed(price int64) bool {
	if s.MinPrice > 0 && price < s.MinPrice {
		return false
	}
	if s.MaxPrice > 0 && price > s.MaxPrice {
		return false
	}
	return true
}
