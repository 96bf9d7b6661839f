// Package locale provides a structured BCP 47 locale identifier with a canonical
// byte form suitable for ordering and table lookups.
//
// Identifiers are canonicalized with golang.org/x/text/language (case, separators,
// deprecated and legacy codes) and then decomposed into language, script, region,
// variants, Unicode extension keywords and private-use subtags.
//
// # Basic Usage
//
//	id, err := locale.Parse("ca_es_VALENCIA")
//	if err != nil {
//		return err
//	}
//	fmt.Println(id) // ca-ES-valencia
//
// # Canonical Form
//
// The canonical form is the string used as a key in data tables:
//
//	lang[-Script][-REGION][-variant...][-ext...][-u-key-value...][-x-private]
//
// StrictCompare orders an identifier against raw key bytes without allocating,
// which makes it usable directly inside a binary search.
//
// # Undetermined
//
// Und is the universal identifier that every data table is required to contain.
// IsUnd reports true only for the bare "und" identifier.
package locale
