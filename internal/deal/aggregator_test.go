package deal

import (
	"testing"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func testSellers() []seller.Seller {
	return []seller.Seller{
		{ID: "seller_001", Name: "Online A", Type: seller.TypeOnline, Rating: floatPtr(4.5),
			PurchaseURL: strPtr("https://online-a.example.com"), Conditions: []string{"무료 배송"}},
		{ID: "seller_002", Name: "Store B", Type: seller.TypeOffline, Rating: floatPtr(4.2),
			Coordinates:   &geo.Point{Lat: 37.5665, Lng: 126.9780},
			ContactNumber: strPtr("02-1234-5678"), Conditions: []string{"현장 할인"}},
		{ID: "seller_003", Name: "Official", Type: seller.TypeOfficial, Conditions: []string{"공식 보증"}},
		{ID: "seller_004", Name: "Mystery", Type: seller.Type("popup")},
	}
}

var s25 = phone.Model{
	Slug: "galaxy-s25", Name: "Galaxy S25", Manufacturer: "Samsung",
	Variants: []phone.Variant{
		{Storage: "128GB", OfficialPrice: 1150000},
		{Storage: "256GB", OfficialPrice: 1250000},
	},
}

var iphone15 = phone.Model{
	Slug: "iphone-15", Name: "iPhone 15", Manufacturer: "Apple",
	Variants: []phone.Variant{
		{Storage: "128GB", OfficialPrice: 1250000},
	},
}

func TestMarkdownRate(t *testing.T) {
	assert.Equal(t, 0.08, MarkdownRate(seller.TypeOnline))
	assert.Equal(t, 0.15, MarkdownRate(seller.TypeOffline))
	assert.Equal(t, 0.02, MarkdownRate(seller.TypeOfficial))
	assert.Equal(t, 0.0, MarkdownRate(seller.Type("unknown")))
}

func TestBuildOffers(t *testing.T) {
	model := phone.Model{Slug: "test-phone", Name: "Test", Manufacturer: "Samsung"}
	v := phone.Variant{Storage: "128GB", OfficialPrice: 1000000}

	offers := BuildOffers(model, v, testSellers())
	require.Len(t, offers, 4)

	t.Run("PricesPerType", func(t *testing.T) {
		assert.Equal(t, int64(920000), offers[0].Price)
		assert.Equal(t, int64(850000), offers[1].Price)
		assert.Equal(t, int64(980000), offers[2].Price)
		assert.Equal(t, int64(1000000), offers[3].Price)
	})

	t.Run("PriceInvariant", func(t *testing.T) {
		for _, o := range offers {
			assert.Equal(t, o.OriginalPrice, o.Price+o.Discount)
			assert.GreaterOrEqual(t, o.Discount, int64(0))
		}
	})

	t.Run("SellerTypeExtras", func(t *testing.T) {
		require.NotNil(t, offers[0].ShippingCost)
		assert.Equal(t, int64(0), *offers[0].ShippingCost)
		assert.Equal(t, "1-2일", *offers[0].EstimatedDelivery)
		assert.Equal(t, "https://online-a.example.com", *offers[0].PurchaseURL)

		assert.Nil(t, offers[1].ShippingCost)
		assert.Equal(t, "02-1234-5678", *offers[1].ContactNumber)
	})

	t.Run("Identity", func(t *testing.T) {
		assert.Equal(t, "price_seller_002_test-phone_128GB", offers[1].ID)
		assert.Equal(t, "seller_002", offers[1].SellerID)
		assert.Equal(t, "test-phone", offers[1].Model.Slug)
		assert.True(t, offers[1].InStock)
	})

	t.Run("ConditionsAreCopied", func(t *testing.T) {
		sellers := testSellers()
		out := BuildOffers(model, v, sellers)
		out[1].Conditions[0] = "changed"
		assert.Equal(t, "현장 할인", sellers[1].Conditions[0])
	})

	t.Run("FloorsDiscount", func(t *testing.T) {
		odd := phone.Variant{Storage: "64GB", OfficialPrice: 999999}
		out := BuildOffers(model, odd, testSellers()[1:2])
		assert.Equal(t, int64(149999), out[0].Discount)
		assert.Equal(t, int64(850000), out[0].Price)
	})
}

type outOfStock struct{}

func (outOfStock) InStock(seller.Seller, phone.Model, phone.Variant) bool { return false }

func TestAggregator_StockSource(t *testing.T) {
	agg := NewAggregator(WithStockSource(outOfStock{}))
	offers := agg.BuildOffers(s25, s25.Variants[0], testSellers()[:1])
	require.Len(t, offers, 1)
	assert.False(t, offers[0].InStock)

	// nil keeps the default
	agg = NewAggregator(WithStockSource(nil))
	offers = agg.BuildOffers(s25, s25.Variants[0], testSellers()[:1])
	assert.True(t, offers[0].InStock)
}

func TestAggregator_Fanout(t *testing.T) {
	agg := NewAggregator()
	sellers := testSellers()[:2]
	models := []phone.Model{s25, iphone15}

	t.Run("AllModelsAllVariants", func(t *testing.T) {
		offers := agg.Fanout(models, sellers, Selection{Mode: ScopeAll})
		assert.Len(t, offers, (2+1)*2)
	})

	t.Run("SingleSelectedVariant", func(t *testing.T) {
		offers := agg.Fanout(models, sellers, Selection{Mode: ScopeSingle, ModelSlug: "galaxy-s25", Storage: "256GB"})
		require.Len(t, offers, 2)
		for _, o := range offers {
			assert.Equal(t, "galaxy-s25", o.Model.Slug)
			assert.Equal(t, int64(1250000), o.OriginalPrice)
		}
	})

	t.Run("SingleFallsBackToFirstVariant", func(t *testing.T) {
		offers := agg.Fanout(models, sellers, Selection{Mode: ScopeSingle, ModelSlug: "galaxy-s25", Storage: "1TB"})
		require.Len(t, offers, 2)
		assert.Equal(t, "128GB", offers[0].Variant.Storage)
	})

	t.Run("SingleModelNotInScope", func(t *testing.T) {
		offers := agg.Fanout([]phone.Model{iphone15}, sellers, Selection{Mode: ScopeSingle, ModelSlug: "galaxy-s25"})
		assert.Empty(t, offers)
	})

	t.Run("SkipsModelsWithoutVariants", func(t *testing.T) {
		offers := agg.Fanout([]phone.Model{{Slug: "empty"}}, sellers, Selection{})
		assert.Empty(t, offers)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "85만원", FormatPrice(850000))
	assert.Equal(t, "115만원", FormatPrice(1150000))
	assert.Equal(t, "1만원", FormatPrice(10000))
	assert.Equal(t, "9,900원", FormatPrice(9900))
	assert.Equal(t, "0원", FormatPrice(0))
}

func TestParseScopeMode(t *testing.T) {
	assert.Equal(t, ScopeSingle, ParseScopeMode("single"))
	assert.Equal(t, ScopeAll, ParseScopeMode("all"))
	assert.Equal(t, ScopeAll, ParseScopeMode(""))
}
