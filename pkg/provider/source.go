package provider

import (
	"fmt"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

// Entry is what a Source returns for one locale.
//
// Exactly one representation is used: Value for materialized values, Bytes for
// wire data, or neither for "use the type's default".
type Entry struct {
	Bytes     []byte
	Value     any
	Ownership Ownership
	Version   string

	// Release is called once the caller is done with a borrowed payload.
	// Nil for sources without leases.
	Release func()
}

// Source fetches raw entries for a key without knowing the payload type.
// A miss is (Entry{}, false, nil); errors are reserved for source failures.
type Source interface {
	Lookup(key DataKey, id locale.ID) (Entry, bool, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(key DataKey, id locale.ID) (Entry, bool, error)

func (f SourceFunc) Lookup(key DataKey, id locale.ID) (Entry, bool, error) {
	return f(key, id)
}

// TableSource serves borrowed entries from an immutable table keyed by locale.
type TableSource struct {
	table   *zerotable.Table
	version string
}

// NewTableSource wraps t. The table must outlive every payload borrowed from it.
func NewTableSource(t *zerotable.Table, version string) *TableSource {
	return &TableSource{table: t, version: version}
}

func (s *TableSource) Lookup(_ DataKey, id locale.ID) (Entry, bool, error) {
	i, ok := s.table.Search(func(key []byte) int { return -id.StrictCompare(key) })
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{Bytes: s.table.ValueAt(i), Ownership: Borrowed, Version: s.version}, true, nil
}

// Table returns the underlying table.
func (s *TableSource) Table() *zerotable.Table { return s.table }

// ErasedSource serves values that other subsystems already materialized.
type ErasedSource struct {
	values  map[string]any
	version string
}

// NewErasedSource indexes values by the canonical form of their locale keys.
func NewErasedSource(values map[string]any, version string) (*ErasedSource, error) {
	idx := make(map[string]any, len(values))
	for k, v := range values {
		id, err := locale.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("provider: erased source key %q: %w", k, err)
		}
		idx[id.String()] = v
	}
	return &ErasedSource{values: idx, version: version}, nil
}

func (s *ErasedSource) Lookup(_ DataKey, id locale.ID) (Entry, bool, error) {
	v, ok := s.values[id.String()]
	if !ok {
		return Entry{}, false, nil
	}
	return Entry{Value: v, Ownership: Owned, Version: s.version}, true, nil
}
