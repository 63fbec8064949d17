package review

import "time"

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

type Review struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"storeId"`
	UserID    *string   `json:"userId,omitempty"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	StoreID string  `json:"store_id"`
	UserID  *string `json:"user_id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}
