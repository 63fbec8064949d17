package geocode

import (
	"context"
	"errors"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/seller"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrEmptyAddress    = errors.New("empty address")
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

// Entry is a cached lookup outcome. Failed entries keep a seller out of the
// session's results without another lookup.
type Entry struct {
	Point  geo.Point `json:"point"`
	Failed bool      `json:"failed,omitempty"`
}

// Cache stores lookup outcomes per session.
type Cache interface {
	Get(ctx context.Context, session, sellerID string) (Entry, bool, error)
	Set(ctx context.Context, session, sellerID string, e Entry) error
}

// ResolvedSeller pairs a seller with the coordinates used for it in one
// session. The seller record itself is never written back.
type ResolvedSeller struct {
	Seller   seller.Seller
	Position geo.Point
}
