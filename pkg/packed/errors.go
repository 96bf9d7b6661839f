package packed

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRecord = errors.New("packed: malformed record")
	ErrShortRecord     = errors.New("packed: record too short")
	ErrOutOfRange      = errors.New("packed: value out of range")
)

// MalformedError describes a record that failed validation.
type MalformedError struct {
	// Record names the record type, e.g. "hijri year".
	Record string
	Reason string
	// Err is an optional underlying cause.
	Err error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("packed: malformed %s record: %s: %v", e.Record, e.Reason, e.Err)
	}
	return fmt.Sprintf("packed: malformed %s record: %s", e.Record, e.Reason)
}

// Is reports ErrMalformedRecord as a match.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Malformed is a shorthand for building a *MalformedError.
func Malformed(record, format string, args ...any) error {
	return &MalformedError{Record: record, Reason: fmt.Sprintf(format, args...)}
}
