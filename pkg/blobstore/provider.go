package blobstore

import (
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// TableSource serves the named table to a provider.Loader. Every entry it
// returns holds a lease that the loader releases together with the response,
// so a reload never invalidates a payload that is still in use.
func (s *Store) TableSource(name string) provider.Source {
	return provider.SourceFunc(func(key provider.DataKey, id locale.ID) (provider.Entry, bool, error) {
		lease, err := s.Acquire(name)
		if err != nil {
			return provider.Entry{}, false, err
		}

		t := lease.Table()
		i, ok := t.Search(func(k []byte) int { return -id.StrictCompare(k) })
		if !ok {
			lease.Release()
			return provider.Entry{}, false, nil
		}
		return provider.Entry{
			Bytes:     t.ValueAt(i),
			Ownership: provider.Borrowed,
			Version:   lease.Version(),
			Release:   lease.Release,
		}, true, nil
	})
}

// WithTable registers the named table for key on a loader.
func (s *Store) WithTable(key provider.DataKey, name string) provider.Option {
	return provider.WithSource(key, s.TableSource(name))
}

// TableName is the blob name used for key, e.g. "messages/greeting@1.ztbl".
func TableName(key provider.DataKey) string {
	return key.Path() + ".ztbl"
}
