package provider

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/dmitrymomot/i18ndata/pkg/fallback"
)

// DataKey identifies a category of localized data, e.g. "calendar/hijri_umalqura@1".
// Keys are comparable and meant to be declared once as package-level variables.
type DataKey struct {
	path      string
	hash      uint32
	fallback  fallback.Config
	singleton bool
}

// KeyOption configures a DataKey.
type KeyOption func(*DataKey)

// WithFallback sets the fallback configuration used for the key.
func WithFallback(cfg fallback.Config) KeyOption {
	return func(k *DataKey) {
		k.fallback = cfg
	}
}

// Singleton marks data that does not vary by locale. It is always served from und.
func Singleton() KeyOption {
	return func(k *DataKey) {
		k.singleton = true
	}
}

// NewKey validates path and creates a DataKey.
// A path is "category/name@version" using lowercase ASCII letters, digits and "_".
func NewKey(path string, opts ...KeyOption) (DataKey, error) {
	if err := validatePath(path); err != nil {
		return DataKey{}, err
	}
	k := DataKey{path: path, hash: hashPath(path)}
	for _, opt := range opts {
		opt(&k)
	}
	return k, nil
}

// MustKey is like NewKey but panics on an invalid path.
func MustKey(path string, opts ...KeyOption) DataKey {
	k, err := NewKey(path, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

// Path returns the key path.
func (k DataKey) Path() string { return k.path }

// Hash returns a stable 32-bit hash of the path.
func (k DataKey) Hash() uint32 { return k.hash }

// Fallback returns the fallback configuration of the key.
func (k DataKey) Fallback() fallback.Config { return k.fallback }

// IsSingleton reports whether the data is locale-independent.
func (k DataKey) IsSingleton() bool { return k.singleton }

// Version returns the part of the path after "@".
func (k DataKey) Version() string {
	_, v, _ := strings.Cut(k.path, "@")
	return v
}

func (k DataKey) String() string {
	if k.path == "" {
		return "<empty>"
	}
	return k.path
}

func hashPath(path string) uint32 {
	h := xxhash.Sum64String(path)
	return uint32(h) ^ uint32(h>>32)
}

func validatePath(path string) error {
	name, version, ok := strings.Cut(path, "@")
	if !ok || version == "" || !strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q is not category/name@version", ErrInvalidKey, path)
	}
	for _, r := range version {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q has a non-numeric version", ErrInvalidKey, path)
		}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, path)
		}
		for _, r := range seg {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
				return fmt.Errorf("%w: %q contains %q", ErrInvalidKey, path, r)
			}
		}
	}
	return nil
}
