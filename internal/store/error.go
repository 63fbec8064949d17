package store

import "errors"

var (
	ErrMissingLocation = errors.New("lat and lng are required")
	ErrFailedSearch    = errors.New("failed to search nearby stores")
)
