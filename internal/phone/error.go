package phone

import "errors"

var (
	ErrInvalidBrand   = errors.New("brand must be galaxy or iphone")
	ErrModelNotFound  = errors.New("model not found")
	ErrFailedGetModel = errors.New("failed to get phone models")
)
