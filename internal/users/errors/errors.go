package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrAlreadyExists = errors.New("user already exists")
)
