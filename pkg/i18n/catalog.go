package i18n

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

// Catalog is the message record of one locale: a string list of alternating
// keys and messages, sorted by key. It aliases the table bytes it was decoded
// from.
type Catalog struct {
	list zerotable.StringList
}

// EncodeCatalog serializes messages into a record.
func EncodeCatalog(messages map[string]string) ([]byte, error) {
	keys := slices.Sorted(maps.Keys(messages))
	flat := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		if k == "" {
			return nil, ErrEmptyKey
		}
		flat = append(flat, k, messages[k])
	}
	return zerotable.EncodeStringList(flat), nil
}

// DecodeCatalog checks the record layout and returns a view over b.
func DecodeCatalog(b []byte) (Catalog, error) {
	l, err := zerotable.ParseStringList(b)
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if l.Len()%2 != 0 {
		return Catalog{}, fmt.Errorf("%w: odd list length %d", ErrInvalidRecord, l.Len())
	}
	for i := 2; i < l.Len(); i += 2 {
		if l.Get(i-2) >= l.Get(i) {
			return Catalog{}, fmt.Errorf("%w: keys out of order at %q", ErrInvalidRecord, l.Get(i))
		}
	}
	return Catalog{list: l}, nil
}

// Get returns the message stored under key.
func (c Catalog) Get(key string) (string, bool) {
	n := c.Len()
	i := sort.Search(n, func(i int) bool { return c.list.Get(2*i) >= key })
	if i < n && c.list.Get(2*i) == key {
		return c.list.Get(2*i + 1), true
	}
	return "", false
}

// Len returns the number of messages.
func (c Catalog) Len() int { return c.list.Len() / 2 }

// Keys returns the message keys in order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, c.Len())
	for i := 0; i < c.list.Len(); i += 2 {
		keys = append(keys, c.list.Get(i))
	}
	return keys
}

// Flatten turns nested message maps into dot separated keys:
// {"errors": {"auth": "x"}} becomes {"errors.auth": "x"}.
func Flatten(data map[string]any) map[string]string {
	out := make(map[string]string)
	flatten(out, data, "")
	return out
}

func flatten(out map[string]string, data map[string]any, prefix string) {
	for key, value := range data {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[full] = v
		case map[string]any:
			flatten(out, v, full)
		case map[string]string:
			for k, s := range v {
				out[full+"."+k] = s
			}
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
}
