package i18n

import (
	"fmt"
	"strings"
)

// M holds placeholder values.
type M map[string]any

// ReplacePlaceholders substitutes {{name}} placeholders in template with
// values from the maps; later maps win. Unknown placeholders stay as written.
//
//	ReplacePlaceholders("Goodbye, {{name}}!", M{"name": "Ana"}) // "Goodbye, Ana!"
func ReplacePlaceholders(template string, placeholders ...M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			break
		}
		name := rest[start+2 : start+2+end]
		b.WriteString(rest[:start])
		if v, ok := lookup(placeholders, strings.TrimSpace(name)); ok {
			fmt.Fprint(&b, v)
		} else {
			b.WriteString(rest[start : start+end+4])
		}
		rest = rest[start+end+4:]
	}
	b.WriteString(rest)
	return b.String()
}

func lookup(maps []M, name string) (any, bool) {
	for i := len(maps) - 1; i >= 0; i-- {
		if v, ok := maps[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
