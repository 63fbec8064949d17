package deal

import (
	"fmt"

	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
)

// basis points, so discounts floor in integer arithmetic
var markdownBP = map[seller.Type]int64{
	seller.TypeOnline:   800,
	seller.TypeOffline:  1500,
	seller.TypeOfficial: 200,
}

const onlineDelivery = "1-2일"

// MarkdownRate is the fixed discount fraction for a seller type; unknown types get none.
func MarkdownRate(t seller.Type) float64 {
	return float64(markdownBP[t]) / 10000
}

// StockSource reports inventory for an offer.
type StockSource interface {
	InStock(s seller.Seller, m phone.Model, v phone.Variant) bool
}

type alwaysInStock struct{}

func (alwaysInStock) InStock(seller.Seller, phone.Model, phone.Variant) bool { return true }

type Aggregator struct {
	stock StockSource
}

type Option func(*Aggregator)

func WithStockSource(src StockSource) Option {
	return func(a *Aggregator) {
		if src != nil {
			a.stock = src
		}
	}
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{stock: alwaysInStock{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BuildOffers quotes one variant at every seller. Inputs are not modified.
func (a *Aggregator) BuildOffers(m phone.Model, v phone.Variant, sellers []seller.Seller) []Offer {
	ref := ModelRef{Slug: m.Slug, Name: m.Name, Brand: m.Manufacturer}

	offers := make([]Offer, 0, len(sellers))
	for _, s := range sellers {
		base := v.OfficialPrice
		discount := base * markdownBP[s.Type] / 10000
		if discount < 0 {
			discount = 0
		}

		o := Offer{
			ID:            fmt.Sprintf("price_%s_%s_%s", s.ID, m.Slug, v.Storage),
			SellerID:      s.ID,
			Seller:        s,
			Model:         ref,
			Variant:       v,
			Price:         base - discount,
			OriginalPrice: base,
			Discount:      discount,
			Conditions:    append([]string{}, s.Conditions...),
			InStock:       a.stock.InStock(s, m, v),
		}

		switch s.Type {
		case seller.TypeOnline:
			shipping := int64(0)
			delivery := onlineDelivery
			o.ShippingCost = &shipping
			o.EstimatedDelivery = &delivery
			o.PurchaseURL = s.PurchaseURL
		case seller.TypeOfficial:
			o.PurchaseURL = s.PurchaseURL
		case seller.TypeOffline:
			o.ContactNumber = s.ContactNumber
		}

		offers = append(offers, o)
	}
	return offers
}

// Fanout quotes every in-scope (model, variant) pair. In single mode only the
// selected model is used, with the selected variant or its first one.
func (a *Aggregator) Fanout(models []phone.Model, sellers []seller.Seller, sel Selection) []Offer {
	var offers []Offer

	for _, m := range models {
		if len(m.Variants) == 0 {
			continue
		}

		variants := m.Variants
		if sel.Mode == ScopeSingle {
			if m.Slug != sel.ModelSlug {
				continue
			}
			v, ok := m.Variant(sel.Storage)
			if !ok {
				v = m.Variants[0]
			}
			variants = []phone.Variant{v}
		}

		for _, v := range variants {
			offers = append(offers, a.BuildOffers(m, v, sellers)...)
		}
	}
	return offers
}

var defaultAggregator = NewAggregator()

// BuildOffers uses an aggregator with the default stock source.
func BuildOffers(m phone.Model, v phone.Variant, sellers []seller.Seller) []Offer {
	return defaultAggregator.BuildOffers(m, v, sellers)
}
