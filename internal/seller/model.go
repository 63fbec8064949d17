package seller

import (
	"strings"

	"phonedeal-be/internal/geo"
)

type Type string

const (
	TypeOnline   Type = "online"
	TypeOffline  Type = "offline"
	TypeOfficial Type = "official"
)

// ParseTypeFilter reads a seller_type query value. "all", empty and unknown
// values yield an empty filter.
func ParseTypeFilter(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeOnline, TypeOffline, TypeOfficial:
		return t
	default:
		return ""
	}
}

type Seller struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Type          Type       `json:"type" yaml:"type"`
	Rating        *float64   `json:"rating,omitempty" yaml:"rating"`
	Address       *string    `json:"address,omitempty" yaml:"address"`
	Coordinates   *geo.Point `json:"coordinates,omitempty" yaml:"coordinates"`
	BusinessHours *string    `json:"businessHours,omitempty" yaml:"businessHours"`
	ContactNumber *string    `json:"contactNumber,omitempty" yaml:"contactNumber"`
	PurchaseURL   *string    `json:"purchaseUrl,omitempty" yaml:"purchaseUrl"`
	Conditions    []string   `json:"conditions" yaml:"conditions"`
}

// RatingOrZero treats a missing rating as zero.
func (s Seller) RatingOrZero() float64 {
	if s.Rating == nil {
		return 0
	}
	return *s.Rating
}

func (s Seller) HasAddress() bool {
	return s.Address != nil && strings.TrimSpace(*s.Address) != ""
}

type ListOptions struct {
	Type Type
}
