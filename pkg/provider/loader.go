package provider

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/i18ndata/pkg/fallback"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

// Loader resolves requests against registered sources, walking the locale
// fallback chain until a source has data. It is immutable after construction
// and safe for concurrent use.
type Loader struct {
	fallbacker *fallback.Fallbacker
	sources    map[DataKey]Source
	logger     *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithFallbacker sets the fallbacker. Defaults to fallback.Default().
func WithFallbacker(f *fallback.Fallbacker) Option {
	return func(l *Loader) error {
		if f == nil {
			return fmt.Errorf("provider: fallbacker cannot be nil")
		}
		l.fallbacker = f
		return nil
	}
}

// WithSource registers src for key.
func WithSource(key DataKey, src Source) Option {
	return func(l *Loader) error {
		if key.path == "" {
			return ErrInvalidKey
		}
		if src == nil {
			return fmt.Errorf("%w: %s", ErrNilSource, key)
		}
		if _, ok := l.sources[key]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		l.sources[key] = src
		return nil
	}
}

// WithTable registers a locale-keyed table for key.
func WithTable(key DataKey, t *zerotable.Table, version string) Option {
	return WithSource(key, NewTableSource(t, version))
}

// WithErased registers materialized values for key.
func WithErased(key DataKey, values map[string]any, version string) Option {
	return func(l *Loader) error {
		src, err := NewErasedSource(values, version)
		if err != nil {
			return err
		}
		return WithSource(key, src)(l)
	}
}

// WithLogger sets the logger used to report data defects.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) error {
		if log != nil {
			l.logger = log
		}
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		fallbacker: fallback.Default(),
		sources:    make(map[DataKey]Source),
		logger:     logger.NewNope(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return l, nil
}

// Has reports whether a source is registered for key.
func (l *Loader) Has(key DataKey) bool {
	_, ok := l.sources[key]
	return ok
}

// Keys returns the registered keys.
func (l *Loader) Keys() []DataKey {
	keys := make([]DataKey, 0, len(l.sources))
	for k := range l.sources {
		keys = append(keys, k)
	}
	return keys
}

// Candidates returns the locales a request would try, in order.
func (l *Loader) Candidates(req Request) []locale.ID {
	if req.Key.IsSingleton() {
		return []locale.ID{locale.Und}
	}
	if !req.AllowFallback {
		return []locale.ID{req.Locale}
	}
	return l.fallbacker.For(req.Key.Fallback()).Chain(req.Locale)
}

// LoadInto resolves req and fills recv. The returned release function must be
// called when a borrowed payload is no longer used; it is never nil on success.
func (l *Loader) LoadInto(req Request, recv Receiver) (Metadata, func(), error) {
	src, ok := l.sources[req.Key]
	if !ok {
		return Metadata{}, nil, &MissingPayloadError{Key: req.Key, Locale: req.Locale, Reason: ReasonKeyNotRegistered}
	}

	if req.Key.IsSingleton() {
		return l.resolveOne(src, req, locale.Und, recv)
	}
	if !req.AllowFallback {
		return l.resolveOne(src, req, req.Locale, recv)
	}

	it := l.fallbacker.For(req.Key.Fallback()).Iterate(req.Locale)
	for {
		cur := it.Get()
		entry, found, err := src.Lookup(req.Key, cur)
		if err != nil {
			return Metadata{}, nil, fmt.Errorf("%w: %s/%s: %w", ErrSource, req.Key, cur, err)
		}
		if found {
			return l.deliver(entry, cur, recv)
		}
		if it.Done() {
			l.logger.Warn("data table has no universal entry",
				slog.String("key", req.Key.Path()),
				slog.String("locale", req.Locale.String()),
			)
			return Metadata{}, nil, &MissingPayloadError{Key: req.Key, Locale: req.Locale, Reason: ReasonFallbackExhausted}
		}
		it.Step()
	}
}

func (l *Loader) resolveOne(src Source, req Request, id locale.ID, recv Receiver) (Metadata, func(), error) {
	entry, found, err := src.Lookup(req.Key, id)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %s/%s: %w", ErrSource, req.Key, id, err)
	}
	if !found {
		reason := ReasonLocaleNotFound
		if req.Key.IsSingleton() {
			reason = ReasonFallbackExhausted
		}
		return Metadata{}, nil, &MissingPayloadError{Key: req.Key, Locale: req.Locale, Reason: reason}
	}
	return l.deliver(entry, id, recv)
}

func (l *Loader) deliver(entry Entry, resolved locale.ID, recv Receiver) (Metadata, func(), error) {
	release := entry.Release
	if release == nil {
		release = func() {}
	}

	var err error
	switch {
	case entry.Value != nil:
		err = recv.ReceiveErased(entry.Value, entry.Ownership)
	case len(entry.Bytes) == 0:
		err = recv.ReceiveDefault()
	default:
		err = recv.ReceiveFromWire(entry.Bytes, entry.Ownership)
	}
	if err != nil {
		release()
		return Metadata{}, nil, err
	}

	return Metadata{Locale: resolved.Clone(), Version: entry.Version}, release, nil
}

// Load resolves req and decodes the payload as T.
func Load[T any](l *Loader, req Request, decode DecodeFunc[T]) (*Response[T], error) {
	recv := NewReceiver(decode)
	md, release, err := l.LoadInto(req, recv)
	if err != nil {
		return nil, err
	}
	payload, _ := recv.Payload()
	return &Response[T]{Payload: payload, Metadata: md, release: release}, nil
}
