package domain

import "errors"

var (
	ErrInvalidURL        = errors.New("invalid URL")
	ErrInvalidAlias      = errors.New("invalid custom alias")
	ErrInvalidExpiry     = errors.New("expiry out of range")
	ErrAliasTaken        = errors.New("custom alias already taken")
	ErrNotFound          = errors.New("link not found")
	ErrExpired           = errors.New("link has expired")
	ErrPersistence       = errors.New("persistence failure")
	ErrTooManyCollisions = errors.New("failed to generate unique code after max attempts")
)
