package fallback

import "errors"

var (
	ErrInvalidSupplement = errors.New("fallback: invalid supplement data")
	ErrUnknownPriority   = errors.New("fallback: unknown priority")
)
