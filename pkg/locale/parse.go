package locale

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Parse canonicalizes s and returns its structured identifier.
// Both "-" and "_" separators are accepted. "root" is an alias of "und".
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, ErrEmpty
	}
	if strings.EqualFold(s, "root") {
		return Und, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: %w", ErrInvalid, s, err)
	}
	return FromTag(tag), nil
}

// MustParse is like Parse but panics on error.
// Intended for package-level variables and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromTag converts an already canonical language tag into an ID.
func FromTag(tag language.Tag) ID {
	return split(tag.String())
}

// Tag converts id back into a language tag.
func (id ID) Tag() language.Tag {
	return language.Make(id.String())
}

// split decomposes a canonical BCP 47 string produced by x/text.
func split(s string) ID {
	parts := strings.Split(s, "-")
	id := ID{Language: strings.ToLower(parts[0])}
	i := 1

	if i < len(parts) && len(parts[i]) == 4 && isAlpha(parts[i]) {
		id.Script = parts[i]
		i++
	}
	if i < len(parts) && (len(parts[i]) == 2 && isAlpha(parts[i]) || len(parts[i]) == 3 && isDigit(parts[i])) {
		id.Region = strings.ToUpper(parts[i])
		i++
	}
	for ; i < len(parts) && len(parts[i]) > 1; i++ {
		id.Variants = append(id.Variants, strings.ToLower(parts[i]))
	}
	slices.Sort(id.Variants)
	id.Variants = slices.Compact(id.Variants)

	for i < len(parts) {
		singleton := strings.ToLower(parts[i])
		j := i + 1
		if singleton == "x" {
			id.PrivateUse = strings.ToLower(strings.Join(parts[j:], "-"))
			break
		}
		for j < len(parts) && len(parts[j]) > 1 {
			j++
		}
		if singleton == "u" {
			id.Keywords = append(id.Keywords, splitKeywords(parts[i+1:j])...)
		} else if j > i+1 {
			id.Extensions = append(id.Extensions, strings.ToLower(strings.Join(parts[i:j], "-")))
		}
		i = j
	}
	slices.SortFunc(id.Keywords, func(a, b Keyword) int { return strings.Compare(a.Key, b.Key) })
	slices.Sort(id.Extensions)

	return id
}

// splitKeywords reads key/value pairs of a -u- extension.
// Attributes preceding the first key are not represented and are dropped.
func splitKeywords(tokens []string) []Keyword {
	var out []Keyword
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if len(tok) == 2 {
			out = append(out, Keyword{Key: tok})
			continue
		}
		if len(out) == 0 {
			continue
		}
		cur := &out[len(out)-1]
		if cur.Value == "" {
			cur.Value = tok
		} else {
			cur.Value += "-" + tok
		}
	}
	// "true" is the implicit value and canonically omitted.
	for i := range out {
		if out[i].Value == "true" {
			out[i].Value = ""
		}
	}
	return out
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func isDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
