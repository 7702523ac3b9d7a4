package dto

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidIndicator = errors.New("invalid indicator")
	ErrUpstream         = errors.New("upstream provider error")
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeConflict   = "conflict"
	ErrorCodeInternal   = "internal_error"
)
