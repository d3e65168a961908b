package errors

import "errors"

var ErrNotFound = errors.New("movie not found")
