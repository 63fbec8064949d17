package deal

import "errors"

var (
	ErrMissingModelOrStorage = errors.New("model_slug and storage are required")
	ErrVariantNotFound       = errors.New("variant not found")
	ErrFailedGetDeals        = errors.New("failed to get deals")
)
