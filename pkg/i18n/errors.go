package i18n

import "errors"

var (
	ErrNilLoader     = errors.New("i18n: loader cannot be nil")
	ErrUnknownKey    = errors.New("i18n: data key is not registered")
	ErrInvalidRecord = errors.New("i18n: invalid message record")
	ErrEmptyKey      = errors.New("i18n: message key cannot be empty")
)
