package packed

// Bit reports whether bit i of word is set.
func Bit(word uint64, i uint) bool {
	return word&(1<<i) != 0
}

// SetBit returns word with bit i set to v.
func SetBit(word uint64, i uint, v bool) uint64 {
	if v {
		return word | 1<<i
	}
	return word &^ (1 << i)
}

// Field extracts width bits of word starting at shift.
func Field(word uint64, shift, width uint) uint64 {
	return (word >> shift) & (1<<width - 1)
}

// PutField stores the low width bits of v into word at shift.
func PutField(word uint64, shift, width uint, v uint64) uint64 {
	mask := uint64(1<<width-1) << shift
	return word&^mask | (v<<shift)&mask
}

// FitsSignMagnitude reports whether v is representable as a sign bit followed
// by a magnitude of the given width.
func FitsSignMagnitude(v int, width uint) bool {
	limit := 1<<width - 1
	return v >= -limit && v <= limit
}

// PutSignMagnitude stores v at shift as one sign bit followed by width magnitude bits.
// The caller must check FitsSignMagnitude first.
func PutSignMagnitude(word uint64, shift, width uint, v int) uint64 {
	neg := v < 0
	if neg {
		v = -v
	}
	word = SetBit(word, shift, neg)
	return PutField(word, shift+1, width, uint64(v))
}

// SignMagnitude reads a value stored by PutSignMagnitude.
func SignMagnitude(word uint64, shift, width uint) int {
	v := int(Field(word, shift+1, width))
	if Bit(word, shift) {
		return -v
	}
	return v
}
