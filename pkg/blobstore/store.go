package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

// Checksum returns the content version of a blob: its xxhash as 16 hex digits.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// generation is one loaded version of a table. It stays reachable while any
// lease on it is outstanding, even after a reload replaced it.
type generation struct {
	name    string
	table   *zerotable.Table
	version string
	leases  atomic.Int64
}

// Lease pins one generation of a table. Payloads borrowed from the table are
// valid until Release is called.
type Lease struct {
	gen  *generation
	once sync.Once
}

// Table returns the leased table.
func (l *Lease) Table() *zerotable.Table { return l.gen.table }

// Version returns the checksum of the leased blob.
func (l *Lease) Version() string { return l.gen.version }

// Release unpins the generation. Calling it more than once has no effect.
func (l *Lease) Release() {
	l.once.Do(func() { l.gen.leases.Add(-1) })
}

// Info describes a loaded table.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Entries int    `json:"entries"`
	Leases  int64  `json:"leases"`
}

const defaultFetchTimeout = 30 * time.Second

// invalidator is implemented by sources that keep their own copy of a blob.
type invalidator interface {
	Invalidate(name string)
}

// Store loads serialized tables from a Source and hands out leases on them.
type Store struct {
	src          Source
	logger       *slog.Logger
	group        singleflight.Group
	fetchTimeout time.Duration

	mu     sync.RWMutex
	tables map[string]*generation
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the store logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) error {
		if log == nil {
			return errors.New("blobstore: nil logger")
		}
		s.logger = log
		return nil
	}
}

// WithFetchTimeout bounds a shared fetch. The fetch outlives any single
// caller's context, so this is what stops a hung source.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Store) error {
		if d <= 0 {
			return fmt.Errorf("%w: fetch timeout must be positive", ErrInvalidConfig)
		}
		s.fetchTimeout = d
		return nil
	}
}

// New creates an empty store reading from src.
func New(src Source, opts ...Option) (*Store, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidConfig)
	}
	s := &Store{
		src:          src,
		logger:       logger.NewNope(),
		fetchTimeout: defaultFetchTimeout,
		tables:       make(map[string]*generation),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return s, nil
}

// Load fetches and validates name unless it is already loaded. Concurrent
// calls for the same name share one fetch.
func (s *Store) Load(ctx context.Context, name string) error {
	s.mu.RLock()
	_, ok := s.tables[name]
	s.mu.RUnlock()
	if ok {
		return nil
	}
	_, err := s.fetch(ctx, name, false)
	return err
}

// Reload fetches name again and swaps the new generation in. Outstanding
// leases keep the previous generation alive. An unchanged blob is kept as is.
// A source that caches blobs is invalidated first so the fetch reaches its
// upstream.
func (s *Store) Reload(ctx context.Context, name string) (changed bool, err error) {
	if inv, ok := s.src.(invalidator); ok {
		inv.Invalidate(name)
	}
	return s.fetch(ctx, name, true)
}

// fetch runs one shared fetch per name. The fetch is detached from the
// caller's cancellation so one caller giving up does not fail the others;
// each caller still stops waiting when its own context ends.
func (s *Store) fetch(ctx context.Context, name string, replace bool) (bool, error) {
	ch := s.group.DoChan(name, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.apply(fctx, name, replace)
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (s *Store) apply(ctx context.Context, name string, replace bool) (bool, error) {
	data, err := s.src.Fetch(ctx, name)
	if err != nil {
		return false, err
	}
	t, err := zerotable.Load(data)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrInvalidBlob, name, err)
	}
	gen := &generation{name: name, table: t, version: Checksum(data)}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, loaded := s.tables[name]
	switch {
	case loaded && !replace:
		return false, nil
	case loaded && old.version == gen.version:
		return false, nil
	}
	s.tables[name] = gen

	attrs := []any{slog.String("table", name), slog.String("version", gen.version), slog.Int("entries", t.Len())}
	if loaded {
		attrs = append(attrs, slog.String("previous", old.version), slog.Int64("previous_leases", old.leases.Load()))
	}
	s.logger.InfoContext(ctx, "table loaded", attrs...)
	return true, nil
}

// Acquire leases the current generation of name.
func (s *Store) Acquire(name string) (*Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gen, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	gen.leases.Add(1)
	return &Lease{gen: gen}, nil
}

// Unload forgets name. It fails with ErrInUse while leases on the current
// generation are outstanding.
func (s *Store) Unload(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, ok := s.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	if n := gen.leases.Load(); n > 0 {
		return fmt.Errorf("%w: %s has %d", ErrInUse, name, n)
	}
	delete(s.tables, name)
	return nil
}

// Tables describes every loaded table, sorted by name.
func (s *Store) Tables() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Info, 0, len(s.tables))
	for _, g := range s.tables {
		out = append(out, Info{Name: g.name, Version: g.version, Entries: g.table.Len(), Leases: g.leases.Load()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the loaded table names, sorted.
func (s *Store) Names() []string {
	infos := s.Tables()
	names := make([]string, len(infos))
	for i, in := range infos {
		names[i] = in.Name
	}
	return names
}
