// Package zerotable implements an immutable, versioned key/value table that is
// read directly from its serialized bytes.
//
// Keys are short byte strings (locale identifiers in practice) stored in a
// sorted, fixed-width key section. Values are either fixed-width records laid
// out in a parallel array or variable-length byte strings addressed through an
// offset index into a single blob. Lookups are a binary search over the key
// section and return sub-slices of the table storage, so no allocation happens
// on the read path.
//
// # Building
//
// Tables are built once, offline or at process start:
//
//	data, err := zerotable.Marshal([]zerotable.Pair{
//		{Key: []byte("en"), Value: []byte("Hello")},
//		{Key: []byte("und"), Value: []byte("Hi")},
//	})
//
// Marshal requires strictly increasing keys in the order the table is built
// with. Reverse builds a table ordered from the largest key to the smallest.
//
// # Loading
//
//	t, err := zerotable.Load(data)
//	if errors.Is(err, zerotable.ErrUnsupportedWireVersion) {
//		// produced by a newer pipeline
//	}
//	v, ok := t.Lookup([]byte("en"))
//
// Load checks the header and section bounds. The key order scan only runs in
// binaries built with the zerotable_debug tag.
//
// # Wire Format
//
// All integers are little-endian:
//
//	0   magic       "ZTBL"
//	4   version     uint16
//	6   flags       uint16 (bit 0 reverse order, bit 1 variable-width values)
//	8   count       uint32
//	12  key width   uint16
//	14  reserved    uint16
//	16  value width uint32 (0 for variable-width tables)
//	20  keys        count * key width bytes, NUL padded
//	    values      count * value width bytes
//	                or (count+1) uint32 offsets followed by the value blob
package zerotable
