package review

import "errors"

var (
	ErrStoreIDRequired = errors.New("store_id is required")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong  = errors.New("comment is too long")
	ErrStoreNotFound   = errors.New("store not found")

	ErrFailedListReviews  = errors.New("failed to list reviews")
	ErrFailedCreateReview = errors.New("failed to create review")
)
