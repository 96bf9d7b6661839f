package zerotable

import (
	"bytes"
	"encoding/binary"
	"iter"
	"strings"
)

const (
	// Magic identifies a serialized table.
	Magic = "ZTBL"

	// Version is the only layout version this package reads and writes.
	Version uint16 = 1

	headerSize  = 20
	flagReverse = 1 << 0
	flagVarLen  = 1 << 1
	knownFlags  = flagReverse | flagVarLen
)

// Table is a read-only view over a serialized table.
// It is safe for concurrent use; the backing bytes must not be modified.
type Table struct {
	data       []byte
	keys       []byte
	values     []byte
	offsets    []byte
	count      int
	keyWidth   int
	valueWidth int
	version    uint16
	reverse    bool
	varLen     bool
}

// Load validates the header of data and returns a table viewing it.
// The returned table retains data without copying.
func Load(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, corrupt("header is %d bytes, want %d", len(data), headerSize)
	}
	if string(data[0:4]) != Magic {
		return nil, corrupt("bad magic %q", data[0:4])
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version != Version {
		return nil, &VersionError{Got: version}
	}

	flags := binary.LittleEndian.Uint16(data[6:8])
	if flags&^knownFlags != 0 {
		return nil, corrupt("unknown flags %#x", flags)
	}

	t := &Table{
		data:       data,
		version:    version,
		count:      int(binary.LittleEndian.Uint32(data[8:12])),
		keyWidth:   int(binary.LittleEndian.Uint16(data[12:14])),
		valueWidth: int(binary.LittleEndian.Uint32(data[16:20])),
		reverse:    flags&flagReverse != 0,
		varLen:     flags&flagVarLen != 0,
	}

	rest := data[headerSize:]
	keyBytes := t.count * t.keyWidth
	if t.count > 0 && t.keyWidth == 0 {
		return nil, corrupt("zero key width")
	}
	if len(rest) < keyBytes {
		return nil, corrupt("key section truncated")
	}
	t.keys, rest = rest[:keyBytes], rest[keyBytes:]

	if t.varLen {
		if t.valueWidth != 0 {
			return nil, corrupt("variable-width table declares value width %d", t.valueWidth)
		}
		idxBytes := (t.count + 1) * 4
		if len(rest) < idxBytes {
			return nil, corrupt("offset index truncated")
		}
		t.offsets, t.values = rest[:idxBytes], rest[idxBytes:]
		prev := uint32(0)
		for i := 0; i <= t.count; i++ {
			off := binary.LittleEndian.Uint32(t.offsets[i*4:])
			if off < prev || int(off) > len(t.values) {
				return nil, corrupt("offset %d out of order or bounds", i)
			}
			prev = off
		}
		if int(prev) != len(t.values) {
			return nil, corrupt("trailing bytes after value blob")
		}
	} else {
		if len(rest) != t.count*t.valueWidth {
			return nil, corrupt("value section is %d bytes, want %d", len(rest), t.count*t.valueWidth)
		}
		t.values = rest
	}

	if debugChecks {
		for i := 1; i < t.count; i++ {
			if t.cmp(t.KeyAt(i-1), t.KeyAt(i)) >= 0 {
				return nil, ErrUnsorted
			}
		}
	}

	return t, nil
}

// MustLoad is like Load but panics on error.
// Intended for tables embedded in the binary.
func MustLoad(data []byte) *Table {
	t, err := Load(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the value stored under key.
// The returned slice aliases the table storage and must not be modified.
func (t *Table) Lookup(key []byte) ([]byte, bool) {
	i, ok := t.Search(func(k []byte) int { return bytes.Compare(k, key) })
	if !ok {
		return nil, false
	}
	return t.ValueAt(i), true
}

// LookupString is Lookup for a string key.
func (t *Table) LookupString(key string) ([]byte, bool) {
	i, ok := t.Search(func(k []byte) int { return strings.Compare(String(k), key) })
	if !ok {
		return nil, false
	}
	return t.ValueAt(i), true
}

// Search binary-searches the keys with cmp, which must compare a stored key with
// the target in natural byte order. The table's own ordering is applied on top.
func (t *Table) Search(cmp func(key []byte) int) (int, bool) {
	lo, hi := 0, t.count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		c := cmp(t.KeyAt(mid))
		if t.reverse {
			c = -c
		}
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// Len returns the number of entries.
func (t *Table) Len() int { return t.count }

// Version returns the layout version the table was written with.
func (t *Table) Version() uint16 { return t.version }

// Reverse reports whether keys are stored in descending order.
func (t *Table) Reverse() bool { return t.reverse }

// FixedWidth returns the value width of a fixed-width table, or 0.
func (t *Table) FixedWidth() int { return t.valueWidth }

// Bytes returns the serialized table.
func (t *Table) Bytes() []byte { return t.data }

// KeyAt returns the i-th key without its NUL padding.
func (t *Table) KeyAt(i int) []byte {
	k := t.keys[i*t.keyWidth : (i+1)*t.keyWidth]
	if n := bytes.IndexByte(k, 0); n >= 0 {
		k = k[:n]
	}
	return k
}

// ValueAt returns the i-th value.
func (t *Table) ValueAt(i int) []byte {
	if !t.varLen {
		return t.values[i*t.valueWidth : (i+1)*t.valueWidth]
	}
	start := binary.LittleEndian.Uint32(t.offsets[i*4:])
	end := binary.LittleEndian.Uint32(t.offsets[(i+1)*4:])
	return t.values[start:end]
}

// All iterates over entries in storage order.
func (t *Table) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for i := range t.count {
			if !yield(t.KeyAt(i), t.ValueAt(i)) {
				return
			}
		}
	}
}

// Keys iterates over keys in storage order.
func (t *Table) Keys() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for i := range t.count {
			if !yield(t.KeyAt(i)) {
				return
			}
		}
	}
}

func (t *Table) cmp(a, b []byte) int {
	c := bytes.Compare(a, b)
	if t.reverse {
		return -c
	}
	return c
}
