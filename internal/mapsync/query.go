package mapsync

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/utils"
)

// QueryState is the part of a session kept in the page URL.
type QueryState struct {
	Scope      store.Scope
	AutoRadius bool
	BoundsOnly bool
}

// ParseQuery reads URL state, falling back to defaults for anything missing
// or unreadable. The center is not part of the URL.
func ParseQuery(v url.Values) QueryState {
	s := store.DefaultScope()

	s.RadiusMeters = utils.ParseIntOr(v.Get("radius"), store.DefaultRadius)
	if s.RadiusMeters <= 0 {
		s.RadiusMeters = store.DefaultRadius
	}
	s.ModelSlug = strings.TrimSpace(v.Get("model"))
	s.Storage = strings.TrimSpace(v.Get("storage"))
	s.Mode = deal.ParseScopeMode(v.Get("scope"))
	s.Brands = store.BrandFilter{
		Galaxy: utils.ParseBool(v.Get("galaxy"), true),
		IPhone: utils.ParseBool(v.Get("iphone"), true),
	}
	s.MinPrice = nonNegative(utils.ParseInt64Or(v.Get("minPrice"), 0))
	s.MaxPrice = nonNegative(utils.ParseInt64Or(v.Get("maxPrice"), 0))
	s.MinRating = math.Max(utils.ParseFloatOr(v.Get("minRating"), 0), 0)
	s.OpenNow = utils.ParseBool(v.Get("openNow"), false)

	return QueryState{
		Scope:      s,
		AutoRadius: utils.ParseBool(v.Get("autoRadius"), true),
		BoundsOnly: utils.ParseBool(v.Get("boundsOnly"), false),
	}
}

// Encode writes the state back in the form ParseQuery reads.
func (q QueryState) Encode() url.Values {
	s := q.Scope
	v := url.Values{}

	v.Set("radius", strconv.Itoa(s.RadiusMeters))
	v.Set("model", s.ModelSlug)
	if s.Storage != "" {
		v.Set("storage", s.Storage)
	}
	mode := s.Mode
	if mode == "" {
		mode = deal.ScopeAll
	}
	v.Set("scope", string(mode))
	v.Set("galaxy", strconv.FormatBool(s.Brands.Galaxy))
	v.Set("iphone", strconv.FormatBool(s.Brands.IPhone))
	v.Set("boundsOnly", strconv.FormatBool(q.BoundsOnly))
	v.Set("autoRadius", strconv.FormatBool(q.AutoRadius))
	v.Set("minPrice", strconv.FormatInt(s.MinPrice, 10))
	v.Set("maxPrice", strconv.FormatInt(s.MaxPrice, 10))
	v.Set("minRating", strconv.FormatFloat(s.MinRating, 'f', -1, 64))
	v.Set("openNow", strconv.FormatBool(s.OpenNow))
	return v
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
