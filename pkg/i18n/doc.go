// Package i18n translates application messages on top of a provider.Loader
// and negotiates locales from Accept-Language headers.
//
// Messages of one locale form a Catalog record: keys and messages stored as a
// sorted string list inside a locale-keyed table. Lookups walk the locale
// fallback chain message by message, so "en-GB" may override a single entry
// and inherit the rest from "en" and then "und".
//
//	tr, err := i18n.New(loader, baked.MessagesKey)
//	msg := tr.T(locale.MustParse("en-GB"), "goodbye", i18n.M{"name": "Ana"})
//
// Placeholders use the {{name}} form. A key missing from every catalog is
// returned unchanged and reported to the handler set with WithMissingKeyHandler.
//
// Negotiate picks the first Accept-Language locale the loader can serve
// better than und.
package i18n
