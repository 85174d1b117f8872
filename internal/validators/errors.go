package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrInvalidRequest is matched by every field validation failure.
	ErrInvalidRequest = errors.New("invalid request")
)
