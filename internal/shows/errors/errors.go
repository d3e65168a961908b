package errors

import "errors"

var (
	ErrNotFound = errors.New("show not found")

	ErrInvalidID = errors.New("invalid show ID format")
)
