package zerotable

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// String returns b as a string without copying.
// b must never be modified afterwards, which holds for slices of a loaded table.
func String(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringList is a zero-copy view over an encoded list of strings:
// a uint32 count, count+1 uint32 offsets and the concatenated string bytes.
type StringList struct {
	index []byte
	blob  []byte
	n     int
}

// EncodeStringList serializes strs in the StringList layout.
func EncodeStringList(strs []string) []byte {
	size := 4 + (len(strs)+1)*4
	for _, s := range strs {
		size += len(s)
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(strs)))
	off := uint32(0)
	out = binary.LittleEndian.AppendUint32(out, off)
	for _, s := range strs {
		off += uint32(len(s))
		out = binary.LittleEndian.AppendUint32(out, off)
	}
	for _, s := range strs {
		out = append(out, s...)
	}
	return out
}

// ParseStringList checks the structure of b and returns a view over it.
func ParseStringList(b []byte) (StringList, error) {
	if len(b) < 8 {
		return StringList{}, corrupt("string list header truncated")
	}
	n := int(binary.LittleEndian.Uint32(b))
	if n > (len(b)-8)/4 {
		return StringList{}, corrupt("string list count %d exceeds %d bytes", n, len(b))
	}
	idx := b[4 : 4+(n+1)*4]
	blob := b[4+(n+1)*4:]
	prev := uint32(0)
	for i := 0; i <= n; i++ {
		off := binary.LittleEndian.Uint32(idx[i*4:])
		if off < prev || int(off) > len(blob) {
			return StringList{}, corrupt("string list offset %d invalid", i)
		}
		prev = off
	}
	if int(prev) != len(blob) {
		return StringList{}, corrupt("string list has trailing bytes")
	}
	return StringList{index: idx, blob: blob, n: n}, nil
}

// DecodeStringList returns a view over b without structural checks.
// b must have passed ParseStringList once.
func DecodeStringList(b []byte) StringList {
	n := int(binary.LittleEndian.Uint32(b))
	return StringList{index: b[4 : 4+(n+1)*4], blob: b[4+(n+1)*4:], n: n}
}

// Len returns the number of strings.
func (l StringList) Len() int { return l.n }

// Get returns the i-th string, aliasing the underlying bytes.
func (l StringList) Get(i int) string {
	if i < 0 || i >= l.n {
		panic(fmt.Sprintf("zerotable: string list index %d out of range [0,%d)", i, l.n))
	}
	start := binary.LittleEndian.Uint32(l.index[i*4:])
	end := binary.LittleEndian.Uint32(l.index[(i+1)*4:])
	return String(l.blob[start:end])
}

// Strings copies every string into a new slice.
func (l StringList) Strings() []string {
	out := make([]string, l.n)
	for i := range out {
		out[i] = l.Get(i)
	}
	return out
}

// Uint16s is a zero-copy view over little-endian uint16 values.
type Uint16s []byte

// EncodeUint16s serializes vals as little-endian uint16 values.
func EncodeUint16s(vals []uint16) []byte {
	out := make([]byte, 0, len(vals)*2)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// Len returns the number of values.
func (u Uint16s) Len() int { return len(u) / 2 }

// At returns the i-th value.
func (u Uint16s) At(i int) uint16 { return binary.LittleEndian.Uint16(u[i*2:]) }
