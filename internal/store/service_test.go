package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/geocode"
	"phonedeal-be/internal/metrics"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/seller"
	"phonedeal-be/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockPhoneService struct {
	mock.Mock
}

func (m *MockPhoneService) ListByBrand(ctx context.Context, brand string) ([]phone.Model, error) {
	args := m.Called(ctx, brand)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]phone.Model), args.Error(1)
}

func (m *MockPhoneService) ListByBrands(ctx context.Context, brands []phone.Brand) ([]phone.Model, error) {
	args := m.Called(ctx, brands)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]phone.Model), args.Error(1)
}

func (m *MockPhoneService) GetBySlug(ctx context.Context, slug string) (*phone.Model, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*phone.Model), args.Error(1)
}

type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) List(ctx context.Context, opts seller.ListOptions) ([]seller.Seller, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetByID(ctx context.Context, id string) (*seller.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.Seller), args.Error(1)
}

type geocoderFunc func(ctx context.Context, address string) (geo.Point, error)

func (f geocoderFunc) Geocode(ctx context.Context, address string) (geo.Point, error) {
	return f(ctx, address)
}

// --- Tests ---

var offlineOnly = seller.ListOptions{Type: seller.TypeOffline}

func fixedClock() func() time.Time {
	return func() time.Time { return noon() }
}

func TestService_Search(t *testing.T) {
	ctx := transport.WithSession(context.Background(), "sess-1")
	iphone := phone.Model{Slug: "iphone-15", Manufacturer: "Apple", Variants: []phone.Variant{{Storage: "128GB", OfficialPrice: 1250000}}}

	t.Run("AllModelsOfEnabledBrands", func(t *testing.T) {
		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)

		phones.On("ListByBrands", ctx, []phone.Brand{phone.BrandGalaxy, phone.BrandIPhone}).
			Return([]phone.Model{testPhone, iphone}, nil)
		sellers.On("List", ctx, offlineOnly).Return([]seller.Seller{
			store("S1", floatPtr(4.2), strPtr("09:00-21:00"), north(0.0045)),
			store("S2", floatPtr(3.0), strPtr("09:00-21:00"), north(0.0135)),
		}, nil)

		stats := &metrics.Search{}
		svc := NewService(phones, sellers, nil, nil, NewEngine(WithLocation(time.UTC)),
			WithClock(fixedClock()), WithSearchMetrics(stats))

		scope := radiusScope(1000)
		scope.MinRating = 4.0

		out, err := svc.Search(ctx, scope)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "S1", out[0].Seller.ID)
		assert.Equal(t, int64(850000), out[0].Offer.Price)
		assert.Equal(t, uint64(1), stats.Passes.Load())
		phones.AssertExpectations(t)
		sellers.AssertExpectations(t)
	})

	t.Run("SingleModelMode", func(t *testing.T) {
		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)

		p := iphone
		phones.On("GetBySlug", ctx, "iphone-15").Return(&p, nil)
		sellers.On("List", ctx, offlineOnly).Return([]seller.Seller{
			store("S1", nil, nil, north(0.001)),
		}, nil)

		svc := NewService(phones, sellers, nil, nil, nil)

		scope := radiusScope(1000)
		scope.Mode = deal.ScopeSingle
		scope.ModelSlug = "iphone-15"
		scope.Brands = BrandFilter{}

		out, err := svc.Search(ctx, scope)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "iphone-15", out[0].Offer.Model.Slug)
		assert.Equal(t, int64(1062500), out[0].Offer.Price)
		phones.AssertNotCalled(t, "ListByBrands", mock.Anything, mock.Anything)
	})

	t.Run("UnknownSingleModelIsEmpty", func(t *testing.T) {
		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)

		phones.On("GetBySlug", ctx, "ghost").Return(nil, phone.ErrModelNotFound)
		sellers.On("List", ctx, offlineOnly).Return([]seller.Seller{store("S1", nil, nil, north(0.001))}, nil)

		svc := NewService(phones, sellers, nil, nil, nil)

		scope := radiusScope(1000)
		scope.Mode = deal.ScopeSingle
		scope.ModelSlug = "ghost"

		out, err := svc.Search(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("InvalidCenter", func(t *testing.T) {
		svc := NewService(new(MockPhoneService), new(MockSellerRepository), nil, nil, nil)

		scope := radiusScope(1000)
		scope.Center = geo.Point{Lat: 200, Lng: 0}

		_, err := svc.Search(ctx, scope)
		assert.ErrorIs(t, err, ErrMissingLocation)
	})

	t.Run("RepoError", func(t *testing.T) {
		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)

		phones.On("ListByBrands", ctx, mock.Anything).Return([]phone.Model{testPhone}, nil)
		sellers.On("List", ctx, offlineOnly).Return(nil, errors.New("db down"))

		svc := NewService(phones, sellers, nil, nil, nil)
		_, err := svc.Search(ctx, radiusScope(1000))
		assert.ErrorIs(t, err, ErrFailedSearch)
	})

	t.Run("PhoneServiceError", func(t *testing.T) {
		phones := new(MockPhoneService)
		phones.On("ListByBrands", ctx, mock.Anything).Return(nil, phone.ErrFailedGetModel)

		svc := NewService(phones, new(MockSellerRepository), nil, nil, nil)
		_, err := svc.Search(ctx, radiusScope(1000))
		assert.ErrorIs(t, err, ErrFailedSearch)
	})
}

func TestService_SearchWithGeocoding(t *testing.T) {
	ctx := transport.WithSession(context.Background(), "sess-geo")

	newMocks := func() (*MockPhoneService, *MockSellerRepository) {
		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)
		phones.On("ListByBrands", ctx, mock.Anything).Return([]phone.Model{testPhone}, nil)
		sellers.On("List", ctx, offlineOnly).Return([]seller.Seller{
			store("known", nil, nil, north(0.001)),
			{ID: "lookup", Name: "lookup", Type: seller.TypeOffline, Address: strPtr("서울 중구 세종대로 110")},
			{ID: "broken", Name: "broken", Type: seller.TypeOffline, Address: strPtr("없는 주소")},
		}, nil)
		return phones, sellers
	}

	var calls int32
	g := geocoderFunc(func(_ context.Context, address string) (geo.Point, error) {
		atomic.AddInt32(&calls, 1)
		if address == "서울 중구 세종대로 110" {
			return *north(0.002), nil
		}
		return geo.Point{}, geocode.ErrAddressNotFound
	})
	resolver := geocode.NewResolver(g, geocode.NewMemoryCache(0))

	t.Run("PartialThenFinal", func(t *testing.T) {
		phones, sellers := newMocks()
		svc := NewService(phones, sellers, nil, resolver, nil)

		var partial []BestOffer
		out, err := svc.Search(ctx, radiusScope(1000), WithPartial(func(p []BestOffer) {
			partial = p
		}))
		require.NoError(t, err)

		require.Len(t, partial, 1)
		assert.Equal(t, "known", partial[0].Seller.ID)

		require.Len(t, out, 2)
		assert.Equal(t, "known", out[0].Seller.ID)
		assert.Equal(t, "lookup", out[1].Seller.ID)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("SecondPassUsesSessionCache", func(t *testing.T) {
		phones, sellers := newMocks()
		svc := NewService(phones, sellers, nil, resolver, nil)

		partialCalled := false
		out, err := svc.Search(ctx, radiusScope(1000), WithPartial(func([]BestOffer) {
			partialCalled = true
		}))
		require.NoError(t, err)

		assert.Len(t, out, 2)
		assert.False(t, partialCalled, "nothing pending, no partial result")
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("ProviderTimeoutDropsOnlyThatSeller", func(t *testing.T) {
		phones, sellers := newMocks()
		timeout := geocoderFunc(func(_ context.Context, address string) (geo.Point, error) {
			if address == "서울 중구 세종대로 110" {
				return *north(0.002), nil
			}
			return geo.Point{}, fmt.Errorf("naver geocode request: %w", context.DeadlineExceeded)
		})
		svc := NewService(phones, sellers, nil, geocode.NewResolver(timeout, nil), nil)

		out, err := svc.Search(ctx, radiusScope(1000))
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "known", out[0].Seller.ID)
		assert.Equal(t, "lookup", out[1].Seller.ID)
	})

	t.Run("CancelledPass", func(t *testing.T) {
		cctx, cancel := context.WithCancel(transport.WithSession(context.Background(), "sess-cancel"))

		phones := new(MockPhoneService)
		sellers := new(MockSellerRepository)
		phones.On("ListByBrands", cctx, mock.Anything).Return([]phone.Model{testPhone}, nil)
		sellers.On("List", cctx, offlineOnly).Return([]seller.Seller{
			{ID: "slow", Type: seller.TypeOffline, Address: strPtr("어딘가")},
		}, nil)

		slow := geocoderFunc(func(ctx context.Context, _ string) (geo.Point, error) {
			cancel()
			<-ctx.Done()
			return geo.Point{}, ctx.Err()
		})

		svc := NewService(phones, sellers, nil, geocode.NewResolver(slow, nil), nil)
		_, err := svc.Search(cctx, radiusScope(1000))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
