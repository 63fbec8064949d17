package seller

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeColumns = []string{
	"store_id", "store_name", "store_type", "review_rating",
	"address", "latitude", "longitude", "operating_hours",
	"contact_number", "source_url", "conditions",
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_OfflineFilter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows(storeColumns).
			AddRow("seller_002", "Store B", "offline", 4.2,
				"Seoul Gangnam-gu Teheran-ro 123", 37.5665, 126.9780, "09:00-21:00",
				"02-1234-5678", nil, `{"현장 할인","케이스 무료 증정"}`).
			AddRow("seller_004", "Store D", "offline", nil,
				"Seoul Jung-gu Sejong-daero 110", nil, nil, nil,
				nil, nil, nil)

		mock.ExpectQuery(`(?s)SELECT .* FROM stores s WHERE \(\$1 = '' OR s.store_type = \$1\)`).
			WithArgs("offline").
			WillReturnRows(rows)

		res, err := repo.List(ctx, ListOptions{Type: TypeOffline})
		require.NoError(t, err)
		require.Len(t, res, 2)

		first := res[0]
		assert.Equal(t, TypeOffline, first.Type)
		require.NotNil(t, first.Rating)
		assert.Equal(t, 4.2, *first.Rating)
		require.NotNil(t, first.Coordinates)
		assert.Equal(t, 37.5665, first.Coordinates.Lat)
		assert.Equal(t, []string{"현장 할인", "케이스 무료 증정"}, first.Conditions)
		require.NotNil(t, first.BusinessHours)
		assert.Equal(t, "09:00-21:00", *first.BusinessHours)
		assert.Nil(t, first.PurchaseURL)

		second := res[1]
		assert.Nil(t, second.Rating)
		assert.Nil(t, second.Coordinates)
		assert.Nil(t, second.BusinessHours)
		assert.True(t, second.HasAddress())
		assert.Equal(t, []string{}, second.Conditions)
		assert.Equal(t, 0.0, second.RatingOrZero())
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .*`).WillReturnError(errors.New("db error"))

		_, err = repo.List(ctx, ListOptions{})
		assert.Error(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows(storeColumns).
			AddRow("seller_001", "Online A", "online", 4.5, nil, nil, nil, nil, nil,
				"https://online-a.example.com", `{"무료 배송"}`)

		mock.ExpectQuery(`(?s)SELECT .* WHERE s.store_id = \$1`).
			WithArgs("seller_001").
			WillReturnRows(rows)

		s, err := repo.GetByID(ctx, "seller_001")
		require.NoError(t, err)
		assert.Equal(t, TypeOnline, s.Type)
		require.NotNil(t, s.PurchaseURL)
		assert.False(t, s.HasAddress())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* WHERE s.store_id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(storeColumns))

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrSellerNotFound)
	})
}

func TestParseTypeFilter(t *testing.T) {
	assert.Equal(t, TypeOnline, ParseTypeFilter("ONLINE"))
	assert.Equal(t, TypeOffline, ParseTypeFilter("offline"))
	assert.Equal(t, TypeOfficial, ParseTypeFilter(" official "))
	assert.Equal(t, Type(""), ParseTypeFilter("all"))
	assert.Equal(t, Type(""), ParseTypeFilter("garbage"))
}
