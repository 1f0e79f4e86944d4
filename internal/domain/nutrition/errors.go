package nutrition

import "errors"

// Domain errors for profile validation

var (
	ErrInvalidHeight = errors.New("profile height must be positive")
	ErrInvalidWeight = errors.New("profile weight must be positive")
	ErrInvalidAge    = errors.New("profile age must be positive")
)
