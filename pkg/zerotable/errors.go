package zerotable

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedWireVersion = errors.New("zerotable: unsupported wire version")
	ErrCorrupt                = errors.New("zerotable: corrupt table")
	ErrUnsorted               = errors.New("zerotable: keys are not strictly increasing")
	ErrInvalidKey             = errors.New("zerotable: invalid key")
	ErrValueWidth             = errors.New("zerotable: value does not match fixed width")
)

// VersionError is returned by Load for a table whose layout version is unknown.
type VersionError struct {
	Got uint16
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("zerotable: unsupported wire version %d (supported: %d)", e.Got, Version)
}

// Is reports ErrUnsupportedWireVersion as a match.
func (e *VersionError) Is(target error) bool {
	return target == ErrUnsupportedWireVersion
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
