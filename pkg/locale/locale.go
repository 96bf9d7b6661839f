package locale

import (
	"bytes"
	"slices"
	"strings"
)

// UndLanguage is the language subtag of the undetermined locale.
const UndLanguage = "und"

// Und is the universal locale every data table must contain.
var Und = ID{Language: UndLanguage}

// Keyword is a single Unicode extension (-u-) key with its value.
// Value is empty for keys that carry the implicit "true" value.
type Keyword struct {
	Key   string
	Value string
}

// ID is a canonical locale identifier.
// Values should be created with Parse; the zero value is not a valid identifier.
type ID struct {
	Language string
	Script   string
	Region   string

	// Variants are lowercase and sorted.
	Variants []string

	// Keywords are the -u- extension keywords, sorted by key.
	Keywords []Keyword

	// Extensions holds other singleton extensions verbatim, e.g. "t-ja".
	Extensions []string

	// PrivateUse holds the subtags following -x-, without the singleton.
	PrivateUse string
}

// IsUnd reports whether id is exactly the undetermined locale.
func (id ID) IsUnd() bool {
	return (id.Language == UndLanguage || id.Language == "") &&
		id.Script == "" &&
		id.Region == "" &&
		len(id.Variants) == 0 &&
		!id.HasExtensions()
}

// HasExtensions reports whether id carries keywords, extensions or private-use subtags.
func (id ID) HasExtensions() bool {
	return len(id.Keywords) > 0 || len(id.Extensions) > 0 || id.PrivateUse != ""
}

// WithoutExtensions returns a copy of id with keywords, extensions and private-use removed.
func (id ID) WithoutExtensions() ID {
	id.Keywords = nil
	id.Extensions = nil
	id.PrivateUse = ""
	id.Variants = slices.Clone(id.Variants)
	return id
}

// Keyword returns the value of the -u- keyword with the given key.
func (id ID) Keyword(key string) (string, bool) {
	for _, kw := range id.Keywords {
		if kw.Key == key {
			return kw.Value, true
		}
	}
	return "", false
}

// WithKeyword returns a copy of id with the keyword set, keeping keywords sorted.
func (id ID) WithKeyword(key, value string) ID {
	out := id.Clone()
	i, found := slices.BinarySearchFunc(out.Keywords, key, func(kw Keyword, k string) int {
		return strings.Compare(kw.Key, k)
	})
	if found {
		out.Keywords[i].Value = value
		return out
	}
	out.Keywords = slices.Insert(out.Keywords, i, Keyword{Key: key, Value: value})
	return out
}

// Clone returns a deep copy of id.
func (id ID) Clone() ID {
	id.Variants = slices.Clone(id.Variants)
	id.Keywords = slices.Clone(id.Keywords)
	id.Extensions = slices.Clone(id.Extensions)
	return id
}

// Equal reports whether both identifiers have the same canonical form.
func (id ID) Equal(other ID) bool {
	return id.Language == other.Language &&
		id.Script == other.Script &&
		id.Region == other.Region &&
		slices.Equal(id.Variants, other.Variants) &&
		slices.Equal(id.Keywords, other.Keywords) &&
		slices.Equal(id.Extensions, other.Extensions) &&
		id.PrivateUse == other.PrivateUse
}

// String returns the canonical form of id.
func (id ID) String() string {
	var buf [64]byte
	return string(id.AppendTo(buf[:0]))
}

// AppendTo appends the canonical form of id to b.
func (id ID) AppendTo(b []byte) []byte {
	lang := id.Language
	if lang == "" {
		lang = UndLanguage
	}
	b = append(b, lang...)
	if id.Script != "" {
		b = append(b, '-')
		b = append(b, id.Script...)
	}
	if id.Region != "" {
		b = append(b, '-')
		b = append(b, id.Region...)
	}
	for _, v := range id.Variants {
		b = append(b, '-')
		b = append(b, v...)
	}
	for _, ext := range id.Extensions {
		if ext[0] < 'u' {
			b = append(b, '-')
			b = append(b, ext...)
		}
	}
	if len(id.Keywords) > 0 {
		b = append(b, "-u"...)
		for _, kw := range id.Keywords {
			b = append(b, '-')
			b = append(b, kw.Key...)
			if kw.Value != "" {
				b = append(b, '-')
				b = append(b, kw.Value...)
			}
		}
	}
	for _, ext := range id.Extensions {
		if ext[0] > 'u' {
			b = append(b, '-')
			b = append(b, ext...)
		}
	}
	if id.PrivateUse != "" {
		b = append(b, "-x-"...)
		b = append(b, id.PrivateUse...)
	}
	return b
}

// StrictCompare compares the canonical form of id with key bytes.
// It returns -1, 0 or 1 like bytes.Compare.
func (id ID) StrictCompare(key []byte) int {
	var buf [64]byte
	return bytes.Compare(id.AppendTo(buf[:0]), key)
}

// Compare orders two identifiers by their canonical forms.
func Compare(a, b ID) int {
	var buf [64]byte
	return a.StrictCompare(b.AppendTo(buf[:0]))
}
