package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. zero miles with no usable odometer readings, or a
// non-positive expense amount).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned by the auth layer when credentials or tokens
// do not check out. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
