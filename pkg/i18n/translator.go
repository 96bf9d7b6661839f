package i18n

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// Translator looks up messages stored under one data key. A message missing
// from a locale's catalog is searched for along the fallback chain, so a
// regional catalog only needs the messages that differ from its parent.
type Translator struct {
	loader    *provider.Loader
	key       provider.DataKey
	onMissing func(id locale.ID, key string)
	logger    *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator) error

// WithMissingKeyHandler is called when no catalog in the chain has the key.
func WithMissingKeyHandler(fn func(id locale.ID, key string)) Option {
	return func(t *Translator) error {
		t.onMissing = fn
		return nil
	}
}

// WithLogger sets the logger used for catalog errors.
func WithLogger(log *slog.Logger) Option {
	return func(t *Translator) error {
		if log == nil {
			return errors.New("i18n: nil logger")
		}
		t.logger = log
		return nil
	}
}

// New creates a translator for messages stored under key.
func New(l *provider.Loader, key provider.DataKey, opts ...Option) (*Translator, error) {
	if l == nil {
		return nil, ErrNilLoader
	}
	if !l.Has(key) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	t := &Translator{loader: l, key: key, logger: logger.NewNope()}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return t, nil
}

// Lookup returns the message for key in id and the locale whose catalog had it.
func (t *Translator) Lookup(id locale.ID, key string) (string, locale.ID, bool) {
	for _, cand := range t.loader.Candidates(provider.NewRequest(t.key, id)) {
		req := provider.Request{Key: t.key, Locale: cand}
		resp, err := provider.Load(t.loader, req, DecodeCatalog)
		if err != nil {
			if !errors.Is(err, provider.ErrMissingPayload) {
				t.logger.Error("failed to load message catalog",
					slog.String("locale", cand.String()),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		msg, ok := resp.Payload.Get().Get(key)
		if ok {
			// The catalog aliases table memory; copy before the lease ends.
			msg = strings.Clone(msg)
		}
		resp.Release()
		if ok {
			return msg, resp.Metadata.Locale, true
		}
	}
	return "", locale.ID{}, false
}

// T returns the message for key in id with placeholders replaced. It returns
// key itself when no catalog has the message.
func (t *Translator) T(id locale.ID, key string, placeholders ...M) string {
	msg, _, ok := t.Lookup(id, key)
	if !ok {
		if t.onMissing != nil {
			t.onMissing(id, key)
		}
		return key
	}
	return ReplacePlaceholders(msg, placeholders...)
}

// For binds the translator to one locale.
func (t *Translator) For(id locale.ID) *Localizer {
	return &Localizer{t: t, locale: id}
}

// Localizer is a Translator bound to a locale.
type Localizer struct {
	t      *Translator
	locale locale.ID
}

// T translates key in the bound locale.
func (l *Localizer) T(key string, placeholders ...M) string {
	return l.t.T(l.locale, key, placeholders...)
}

// TranslateMessage translates key with a single value map.
func (l *Localizer) TranslateMessage(key string, values map[string]any) string {
	return l.t.T(l.locale, key, values)
}

// Locale returns the bound locale.
func (l *Localizer) Locale() locale.ID { return l.locale }
