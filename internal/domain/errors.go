package domain

import "errors"

// Sentinel errors the transport layer branches on. Storage failures that
// are not one of these surface as a generic server error; the detail is
// logged, never exposed.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)
