package phone

import (
	"context"
	"database/sql"

	"phonedeal-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListByManufacturers(ctx context.Context, manufacturers []string) ([]Model, error)
	GetBySlug(ctx context.Context, slug string) (*Model, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectModels = `
	SELECT
		m.model_slug,
		m.model_name,
		m.manufacturer,
		COALESCE(m.series, ''),
		v.storage_gb,
		v.colors,
		v.release_price
	FROM phone_models m
	JOIN phone_variants v ON v.model_id = m.model_id
`

func (r *repository) ListByManufacturers(
	ctx context.Context,
	manufacturers []string,
) ([]Model, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Phone"),
		zap.String("method", "ListByManufacturers"),
		zap.Strings("manufacturers", manufacturers),
	)

	q := selectModels + `
	WHERE m.manufacturer = ANY($1)
	ORDER BY m.model_slug ASC, v.storage_gb ASC
	`

	rows, err := r.db.QueryContext(ctx, q, pq.Array(manufacturers))
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	models, err := scanModels(rows)
	if err != nil {
		log.Error("scan failed", zap.Error(err))
		return nil, err
	}

	log.Debug("models loaded", zap.Int("count", len(models)))
	return models, nil
}

func (r *repository) GetBySlug(
	ctx context.Context,
	slug string,
) (*Model, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Phone"),
		zap.String("method", "GetBySlug"),
		zap.String("slug", slug),
	)

	q := selectModels + `
	WHERE m.model_slug = $1
	ORDER BY v.storage_gb ASC
	`

	rows, err := r.db.QueryContext(ctx, q, slug)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	models, err := scanModels(rows)
	if err != nil {
		log.Error("scan failed", zap.Error(err))
		return nil, err
	}

	if len(models) == 0 {
		return nil, ErrModelNotFound
	}
	return &models[0], nil
}

// scanModels folds one row per variant into models, keeping query order.
func scanModels(rows *sql.Rows) ([]Model, error) {
	var (
		models []Model
		index  = map[string]int{}
	)

	for rows.Next() {
		var (
			m         Model
			storageGB int
			colors    []string
			price     int64
		)
		if err := rows.Scan(
			&m.Slug, &m.Name, &m.Manufacturer, &m.Series,
			&storageGB, pq.Array(&colors), &price,
		); err != nil {
			return nil, err
		}

		v := Variant{
			Storage:       StorageLabel(storageGB),
			Colors:        colors,
			OfficialPrice: price,
		}

		if i, ok := index[m.Slug]; ok {
			models[i].Variants = append(models[i].Variants, v)
			continue
		}

		m.Variants = []Variant{v}
		index[m.Slug] = len(models)
		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}
