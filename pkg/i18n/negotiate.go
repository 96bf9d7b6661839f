package i18n

import (
	"reflect"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// probe is a receiver that accepts any payload and keeps nothing.
type probe struct{}

func (probe) ReceiveFromWire([]byte, provider.Ownership) error { return nil }
func (probe) ReceiveDefault() error                             { return nil }
func (probe) ReceiveErased(any, provider.Ownership) error       { return nil }
func (probe) ExpectedType() reflect.Type                        { return reflect.TypeFor[any]() }

// Resolve reports which locale l would serve key from for id, without decoding.
func Resolve(l *provider.Loader, key provider.DataKey, id locale.ID) (locale.ID, error) {
	md, release, err := l.LoadInto(provider.NewRequest(key, id), probe{})
	if err != nil {
		return locale.ID{}, err
	}
	release()
	return md.Locale, nil
}

// Negotiate picks the first locale of an Accept-Language header for which l
// has data of key more specific than und. If none has, it returns the most
// preferred locale, or und for an empty header.
func Negotiate(header string, l *provider.Loader, key provider.DataKey) locale.ID {
	accepted := ParseAcceptLanguage(header)
	for _, id := range accepted {
		resolved, err := Resolve(l, key, id)
		if err == nil && !resolved.IsUnd() {
			return id
		}
	}
	if len(accepted) > 0 {
		return accepted[0]
	}
	return locale.Und
}
