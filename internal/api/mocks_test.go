package api

import (
	"context"
	"net/http"

	"phonedeal-be/internal/deal"
	"phonedeal-be/internal/naver"
	"phonedeal-be/internal/phone"
	"phonedeal-be/internal/review"
	"phonedeal-be/internal/seller"
	"phonedeal-be/internal/store"
	"phonedeal-be/internal/transport"

	"github.com/stretchr/testify/mock"
)

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

type MockDealService struct {
	mock.Mock
}

func (m *MockDealService) GetDeals(ctx context.Context, modelSlug, storage string, sellerType seller.Type) ([]deal.Offer, error) {
	args := m.Called(ctx, modelSlug, storage, sellerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]deal.Offer), args.Error(1)
}

func (m *MockDealService) GetTopDeals(ctx context.Context, limit int, sellerType seller.Type) ([]deal.Offer, error) {
	args := m.Called(ctx, limit, sellerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]deal.Offer), args.Error(1)
}

type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) Search(ctx context.Context, scope store.Scope, opts ...store.SearchOption) ([]store.BestOffer, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.BestOffer), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByStore(ctx context.Context, storeID string) ([]review.Review, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, in review.CreateInput) (*review.Review, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

type mapLoaderFunc func(ctx context.Context) (*naver.MapHandle, error)

func (f mapLoaderFunc) Load(ctx context.Context) (*naver.MapHandle, error) {
	return f(ctx)
}

type mocks struct {
	phones  *MockPhoneService
	deals   *MockDealService
	stores  *MockStoreService
	reviews *MockReviewService
}

func newMocks() *mocks {
	return &mocks{
		phones:  new(MockPhoneService),
		deals:   new(MockDealService),
		stores:  new(MockStoreService),
		reviews: new(MockReviewService),
	}
}

// router wires the handler the way the server does, minus auth and limits.
func (m *mocks) router(opts ...func(*Deps)) http.Handler {
	d := Deps{Phones: m.phones, Deals: m.deals, Stores: m.stores, Reviews: m.reviews}
	for _, opt := range opts {
		opt(&d)
	}
	mux := http.NewServeMux()
	NewHandler(d).Register(mux)
	return transport.SessionMiddleware(mux)
}
