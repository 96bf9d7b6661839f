package provider

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
)

var (
	ErrMissingPayload = errors.New("provider: missing payload")
	ErrTypeMismatch   = errors.New("provider: payload type mismatch")
	ErrInvalidKey     = errors.New("provider: invalid data key")
	ErrDuplicateKey   = errors.New("provider: data key registered twice")
	ErrNilSource      = errors.New("provider: source cannot be nil")
	ErrSource         = errors.New("provider: source failed")
)

// MissingReason tells why no payload was found.
type MissingReason uint8

const (
	// ReasonKeyNotRegistered means no source serves the key.
	ReasonKeyNotRegistered MissingReason = iota + 1

	// ReasonLocaleNotFound means fallback was disabled and the exact locale is absent.
	ReasonLocaleNotFound

	// ReasonFallbackExhausted means the chain reached und without a hit.
	// The table is missing its universal entry, which is a data defect.
	ReasonFallbackExhausted
)

func (r MissingReason) String() string {
	switch r {
	case ReasonKeyNotRegistered:
		return "key not registered"
	case ReasonLocaleNotFound:
		return "locale not found"
	case ReasonFallbackExhausted:
		return "fallback exhausted"
	default:
		return "unknown"
	}
}

// MissingPayloadError is returned when a request cannot be satisfied.
type MissingPayloadError struct {
	Key    DataKey
	Locale locale.ID
	Reason MissingReason
}

func (e *MissingPayloadError) Error() string {
	return fmt.Sprintf("provider: missing payload for %s/%s: %s", e.Key, e.Locale, e.Reason)
}

// Is reports ErrMissingPayload as a match.
func (e *MissingPayloadError) Is(target error) bool {
	return target == ErrMissingPayload
}

// TypeMismatchError carries the expected and actual payload types.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("provider: payload type mismatch: expected %v, got %v", e.Expected, e.Actual)
}

// Is reports ErrTypeMismatch as a match.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
