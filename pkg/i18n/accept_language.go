package i18n

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/i18ndata/pkg/locale"
)

// maxAcceptLanguageLength bounds the part of the header that is parsed.
const maxAcceptLanguageLength = 4096

// Weighted is a locale with its Accept-Language quality.
type Weighted struct {
	Locale  locale.ID
	Quality float64
}

// ParseAcceptLanguageWeighted parses an Accept-Language header. Entries are
// returned by descending quality, ties in header order. Wildcards, q=0 entries
// and tags that do not parse are skipped.
func ParseAcceptLanguageWeighted(header string) []Weighted {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	var out []Weighted
	seen := make(map[string]bool)
	for part := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}

		q := 1.0
		for p := range strings.SplitSeq(params, ";") {
			p = strings.TrimSpace(p)
			if v, ok := strings.CutPrefix(p, "q="); ok {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil || f < 0 || f > 1 {
					q = -1
				} else {
					q = f
				}
			}
		}
		if q <= 0 {
			continue
		}

		id, err := locale.Parse(tag)
		if err != nil {
			continue
		}
		key := id.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Weighted{Locale: id, Quality: q})
	}

	slices.SortStableFunc(out, func(a, b Weighted) int {
		return cmp.Compare(b.Quality, a.Quality)
	})
	return out
}

// ParseAcceptLanguage returns the locales of an Accept-Language header in
// preference order.
func ParseAcceptLanguage(header string) []locale.ID {
	weighted := ParseAcceptLanguageWeighted(header)
	ids := make([]locale.ID, len(weighted))
	for i, w := range weighted {
		ids[i] = w.Locale
	}
	return ids
}
