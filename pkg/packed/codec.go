package packed

import "strconv"

// Codec encodes, decodes and validates values of type T as fixed-width records.
type Codec[T any] interface {
	// Size is the record width in bytes.
	Size() int

	// Encode packs v. It fails only when v cannot be represented.
	Encode(v T) ([]byte, error)

	// Decode extracts a value without any validation.
	// The result is unspecified for bytes that never passed Validate.
	Decode(b []byte) T

	// Validate decodes b and checks every derived invariant.
	Validate(b []byte) (T, error)
}

// RoundTrip encodes v and validates the result. It is what build pipelines call
// before storing a record in a table.
func RoundTrip[T any](c Codec[T], v T) ([]byte, error) {
	b, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	if _, err := c.Validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ValidateAll validates a packed array of records laid out back to back.
// The returned error identifies the first failing index.
func ValidateAll[T any](c Codec[T], b []byte) ([]T, error) {
	size := c.Size()
	if size <= 0 || len(b)%size != 0 {
		return nil, &MalformedError{Record: "array", Reason: "length is not a multiple of the record size", Err: ErrShortRecord}
	}

	out := make([]T, 0, len(b)/size)
	for off := 0; off < len(b); off += size {
		v, err := c.Validate(b[off : off+size])
		if err != nil {
			return nil, &MalformedError{Record: "array", Reason: "record " + strconv.Itoa(off/size), Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}
