package locale

import "errors"

var (
	ErrInvalid = errors.New("locale: invalid locale identifier")
	ErrEmpty   = errors.New("locale: locale identifier cannot be empty")
)
