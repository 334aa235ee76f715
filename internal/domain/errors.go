package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrSoldOut           = errors.New("sold out")
	ErrUserNotRegistered = errors.New("user not registered")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrDeliveryFailed    = errors.New("delivery failed")
)
