// Package provider resolves typed locale data through a type-unaware loader.
//
// A Loader maps DataKeys to Sources. Sources return raw entries for a single
// locale and know nothing about payload types. Callers describe the type they
// want by handing the Loader a Receiver, which decodes wire bytes, stores a
// default, or accepts an already materialized value after a checked type
// assertion.
//
// # Resolution
//
// For every request the Loader walks the fallback chain of the requested
// locale (see package fallback) and stops at the first candidate the source
// has data for. The chain always ends at und, which every well-formed table
// contains. Metadata.Locale reports the candidate that matched.
//
//	var GreetingKey = provider.MustKey("messages/greeting@1")
//
//	loader, err := provider.NewLoader(
//		provider.WithTable(GreetingKey, table, "2024.1"),
//	)
//	resp, err := provider.Load(loader, provider.NewRequest(GreetingKey, locale.MustParse("en-GB")),
//		func(b []byte) (string, error) { return zerotable.String(b), nil })
//	if err != nil {
//		return err
//	}
//	defer resp.Release()
//	fmt.Println(resp.Payload.Get(), resp.Metadata.Locale)
//
// # Errors
//
// Missing data is reported as *MissingPayloadError (matching ErrMissingPayload)
// with a reason: the key is not registered, the exact locale is absent while
// fallback is disabled, or the chain was exhausted. Type confusion on erased
// values is reported as *TypeMismatchError (matching ErrTypeMismatch) with both
// types. The Loader never substitutes other data on its own.
//
// # Ownership
//
// Payloads decoded from table bytes are Borrowed and may alias the table.
// Values produced fresh are Owned. Borrowed payloads from leased sources stay
// valid until Response.Release.
package provider
