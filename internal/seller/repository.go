package seller

import (
	"context"
	"database/sql"
	"errors"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrSellerNotFound = errors.New("seller not found")

type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Seller, error)
	GetByID(ctx context.Context, id string) (*Seller, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectStores = `
	SELECT
		s.store_id,
		s.store_name,
		s.store_type,
		s.review_rating,
		s.address,
		s.latitude,
		s.longitude,
		s.operating_hours,
		s.contact_number,
		s.source_url,
		s.conditions
	FROM stores s
`

func (r *repository) List(
	ctx context.Context,
	opts ListOptions,
) ([]Seller, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Seller"),
		zap.String("method", "List"),
		zap.String("type", string(opts.Type)),
	)

	q := selectStores + `
	WHERE ($1 = '' OR s.store_type = $1)
	ORDER BY s.store_id ASC
	`

	rows, err := r.db.QueryContext(ctx, q, string(opts.Type))
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []Seller
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, s)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return res, nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Seller, error) {

	q := selectStores + `
	WHERE s.store_id = $1
	LIMIT 1
	`

	s, err := scanSeller(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrSellerNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("query failed",
			zap.String("repo", "Seller"),
			zap.String("method", "GetByID"),
			zap.String("store_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSeller(row scanner) (Seller, error) {
	var (
		s          Seller
		storeType  string
		rating     sql.NullFloat64
		address    sql.NullString
		lat, lng   sql.NullFloat64
		hours      sql.NullString
		contact    sql.NullString
		sourceURL  sql.NullString
		conditions []string
	)

	if err := row.Scan(
		&s.ID, &s.Name, &storeType, &rating,
		&address, &lat, &lng, &hours, &contact, &sourceURL,
		pq.Array(&conditions),
	); err != nil {
		return Seller{}, err
	}

	s.Type = Type(storeType)
	s.Rating = nullFloat(rating)
	s.Address = nullString(address)
	s.BusinessHours = nullString(hours)
	s.ContactNumber = nullString(contact)
	s.PurchaseURL = nullString(sourceURL)
	s.Conditions = conditions
	if s.Conditions == nil {
		s.Conditions = []string{}
	}

	if lat.Valid && lng.Valid && (lat.Float64 != 0 || lng.Float64 != 0) {
		s.Coordinates = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}

	return s, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}
