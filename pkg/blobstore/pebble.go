package blobstore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cockroachdb/pebble"
)

// PebbleSource keeps tables in a local Pebble database, typically as an
// on-disk mirror of a remote source.
type PebbleSource struct {
	db *pebble.DB
}

// OpenPebble opens or creates the database in dir.
func OpenPebble(dir string) (*PebbleSource, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("blobstore: open pebble %s: %w", dir, err)
	}
	return &PebbleSource{db: db}, nil
}

func (s *PebbleSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, closer, err := s.db.Get([]byte(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFetchFailed, name, err)
	}
	defer closer.Close()

	// value is only valid until closer is closed.
	return slices.Clone(value), nil
}

func (s *PebbleSource) Put(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Set([]byte(name), data, pebble.Sync); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPutFailed, name, err)
	}
	return nil
}

// Close closes the database.
func (s *PebbleSource) Close() error {
	return s.db.Close()
}

// Mirror fetches from primary and writes every successful fetch to the local
// copy. When primary fails with anything but ErrNotFound, the local copy is
// served instead.
type Mirror struct {
	primary Source
	local   interface {
		Source
		Writer
	}
}

// NewMirror returns a source backed by primary with local as a fallback copy.
func NewMirror(primary Source, local *PebbleSource) *Mirror {
	return &Mirror{primary: primary, local: local}
}

func (m *Mirror) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := m.primary.Fetch(ctx, name)
	if err == nil {
		// A failed local write only leaves the previous copy in place.
		_ = m.local.Put(ctx, name, data)
		return data, nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidName) {
		return nil, err
	}
	if local, lerr := m.local.Fetch(ctx, name); lerr == nil {
		return local, nil
	}
	return nil, err
}
