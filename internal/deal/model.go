package deal

import (
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
)

type ScopeMode string

const (
	ScopeAll    ScopeMode = "all"
	ScopeSingle ScopeMode = "single"
)

func ParseScopeMode(s string) ScopeMode {
	if ScopeMode(s) == ScopeSingle {
		return ScopeSingle
	}
	return ScopeAll
}

// ModelRef is the slice of a phone model an offer carries.
type ModelRef struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

// Offer is a computed (seller, model, variant) price quote. Offers are rebuilt
// on every pass and never stored.
type Offer struct {
	ID                string        `json:"id"`
	SellerID          string        `json:"sellerId"`
	Seller            seller.Seller `json:"seller"`
	Model             ModelRef      `json:"model"`
	Variant           phone.Variant `json:"variant"`
	Price             int64         `json:"price"`
	OriginalPrice     int64         `json:"originalPrice"`
	Discount          int64         `json:"discount"`
	Conditions        []string      `json:"conditions"`
	InStock           bool          `json:"stockStatus"`
	ShippingCost      *int64        `json:"shippingCost"`
	EstimatedDelivery *string       `json:"estimatedDelivery"`
	PurchaseURL       *string       `json:"purchaseUrl"`
	ContactNumber     *string       `json:"contactNumber"`
}

// Selection narrows the fan-out to one model and variant in single mode.
type Selection struct {
	Mode      ScopeMode
	ModelSlug string
	Storage   string
}
