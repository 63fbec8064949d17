package review

import (
	"context"
	"database/sql"

	"phonedeal-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	ListByStore(ctx context.Context, storeID string) ([]Review, error)
	Create(ctx context.Context, r *Review) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByStore(
	ctx context.Context,
	storeID string,
) ([]Review, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Review"),
		zap.String("method", "ListByStore"),
		zap.String("store_id", storeID),
	)

	const q = `
		SELECT review_id, store_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE store_id = $1
		ORDER BY created_at DESC, review_id ASC
	`

	rows, err := r.db.QueryContext(ctx, q, storeID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	res := []Review{}
	for rows.Next() {
		var (
			rv      Review
			userID  sql.NullString
			comment sql.NullString
		)
		if err := rows.Scan(
			&rv.ID, &rv.StoreID, &userID, &rv.Rating, &comment, &rv.CreatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		rv.UserID = nullable(userID)
		rv.Comment = nullable(comment)
		res = append(res, rv)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows error", zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Create inserts the review and fills CreatedAt from the database.
func (r *repository) Create(
	ctx context.Context,
	rv *Review,
) error {

	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Review"),
		zap.String("method", "Create"),
		zap.String("store_id", rv.StoreID),
	)

	const q = `
		INSERT INTO reviews (review_id, store_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, q,
		rv.ID, rv.StoreID, rv.UserID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt)
	if err != nil {
		log.Error("insert failed", zap.Error(err))
		return err
	}

	log.Info("review created", zap.String("review_id", rv.ID))
	return nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
