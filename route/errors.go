package route

import "errors"

var (
	// ErrInvalidRecord is returned when a route record fails validation.
	ErrInvalidRecord = errors.New("invalid route record")
	// ErrInvalidPath is returned when a navigation target is not an in-app path.
	ErrInvalidPath = errors.New("invalid navigation path")
	// ErrUnknownRoute is returned when a named route does not exist.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrMissingParam is returned when building a path without a required parameter.
	ErrMissingParam = errors.New("missing route parameter")
)
