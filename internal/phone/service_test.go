package phone

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByManufacturers(ctx context.Context, manufacturers []string) ([]Model, error) {
	args := m.Called(ctx, manufacturers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Model), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string) (*Model, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Model), args.Error(1)
}

// --- Tests ---

func TestService_ListByBrand(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		expected := []Model{{Slug: "galaxy-s25", Manufacturer: "Samsung"}}
		mockRepo.On("ListByManufacturers", ctx, []string{"Samsung"}).Return(expected, nil)

		res, err := svc.ListByBrand(ctx, "Galaxy")
		assert.NoError(t, err)
		assert.Equal(t, expected, res)
		mockRepo.AssertExpectations(t)
	})

	t.Run("InvalidBrand", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		_, err := svc.ListByBrand(ctx, "pixel")
		assert.ErrorIs(t, err, ErrInvalidBrand)
		mockRepo.AssertNotCalled(t, "ListByManufacturers")
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		mockRepo.On("ListByManufacturers", ctx, []string{"Apple"}).Return(nil, errors.New("db error"))

		_, err := svc.ListByBrand(ctx, "iphone")
		assert.ErrorIs(t, err, ErrFailedGetModel)
	})
}

func TestService_ListByBrands(t *testing.T) {
	ctx := context.Background()

	t.Run("KeepsBrandOrder", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		mockRepo.On("ListByManufacturers", ctx, []string{"Samsung", "Apple"}).Return([]Model{
			{Slug: "iphone-15", Manufacturer: "Apple"},
			{Slug: "galaxy-s25", Manufacturer: "Samsung"},
		}, nil)

		res, err := svc.ListByBrands(ctx, []Brand{BrandGalaxy, BrandIPhone})
		assert.NoError(t, err)
		if assert.Len(t, res, 2) {
			assert.Equal(t, "galaxy-s25", res[0].Slug)
			assert.Equal(t, "iphone-15", res[1].Slug)
		}
	})

	t.Run("NoBrands", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)

		res, err := svc.ListByBrands(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		expected := &Model{Slug: "iphone-14"}
		mockRepo.On("GetBySlug", ctx, "iphone-14").Return(expected, nil)

		res, err := svc.GetBySlug(ctx, " iphone-14 ")
		assert.NoError(t, err)
		assert.Equal(t, expected, res)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		mockRepo.On("GetBySlug", ctx, "x").Return(nil, ErrModelNotFound)

		_, err := svc.GetBySlug(ctx, "x")
		assert.ErrorIs(t, err, ErrModelNotFound)
	})

	t.Run("Empty", func(t *testing.T) {
		svc := NewService(new(MockRepository))
		_, err := svc.GetBySlug(ctx, "")
		assert.ErrorIs(t, err, ErrModelNotFound)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		mockRepo.On("GetBySlug", ctx, "x").Return(nil, errors.New("boom"))

		_, err := svc.GetBySlug(ctx, "x")
		assert.ErrorIs(t, err, ErrFailedGetModel)
	})
}

func TestModelHelpers(t *testing.T) {
	m := Model{
		Slug:         "galaxy-s25",
		Manufacturer: "Samsung",
		Variants: []Variant{
			{Storage: "256GB", OfficialPrice: 1250000},
			{Storage: "128GB", OfficialPrice: 1150000},
		},
	}

	assert.Equal(t, BrandGalaxy, m.Brand())
	assert.Equal(t, int64(1150000), m.AveragePrice())

	v, ok := m.Variant("128gb")
	assert.True(t, ok)
	assert.Equal(t, int64(1150000), v.OfficialPrice)

	_, ok = m.Variant("1TB")
	assert.False(t, ok)

	gb, ok := ParseStorageGB("512 GB")
	assert.True(t, ok)
	assert.Equal(t, 512, gb)

	_, ok = ParseStorageGB("big")
	assert.False(t, ok)
}
