package zerotable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// Pair is a single key/value entry passed to Marshal.
type Pair struct {
	Key   []byte
	Value []byte
}

// StringPair builds a Pair from a string key.
func StringPair(key string, value []byte) Pair {
	return Pair{Key: []byte(key), Value: value}
}

type buildConfig struct {
	reverse    bool
	fixedWidth int
}

// Option configures how a table is built.
type Option func(*buildConfig)

// Reverse orders keys from the largest to the smallest.
func Reverse() Option {
	return func(c *buildConfig) {
		c.reverse = true
	}
}

// FixedWidth stores every value inline with exactly n bytes.
// Without it values are variable-width.
func FixedWidth(n int) Option {
	return func(c *buildConfig) {
		c.fixedWidth = n
	}
}

// SortPairs sorts pairs into the order Marshal expects for the given options.
func SortPairs(pairs []Pair, opts ...Option) {
	cfg := applyOptions(opts)
	slices.SortFunc(pairs, func(a, b Pair) int {
		c := bytes.Compare(a.Key, b.Key)
		if cfg.reverse {
			return -c
		}
		return c
	})
}

// Marshal serializes sorted pairs into the table wire format.
// Keys must be non-empty, NUL-free and strictly increasing in the configured order.
func Marshal(pairs []Pair, opts ...Option) ([]byte, error) {
	cfg := applyOptions(opts)
	if cfg.fixedWidth < 0 || uint64(cfg.fixedWidth) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: width %d", ErrValueWidth, cfg.fixedWidth)
	}
	if uint64(len(pairs)) > math.MaxUint32 {
		return nil, fmt.Errorf("zerotable: too many entries: %d", len(pairs))
	}

	keyWidth := 0
	blobLen := 0
	for i, p := range pairs {
		if len(p.Key) == 0 || bytes.IndexByte(p.Key, 0) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, p.Key)
		}
		if i > 0 {
			c := bytes.Compare(pairs[i-1].Key, p.Key)
			if cfg.reverse {
				c = -c
			}
			if c >= 0 {
				return nil, fmt.Errorf("%w: %q after %q", ErrUnsorted, p.Key, pairs[i-1].Key)
			}
		}
		if cfg.fixedWidth > 0 && len(p.Value) != cfg.fixedWidth {
			return nil, fmt.Errorf("%w: key %q has %d bytes, want %d", ErrValueWidth, p.Key, len(p.Value), cfg.fixedWidth)
		}
		keyWidth = max(keyWidth, len(p.Key))
		blobLen += len(p.Value)
	}
	if keyWidth > math.MaxUint16 {
		return nil, fmt.Errorf("%w: key longer than %d bytes", ErrInvalidKey, math.MaxUint16)
	}
	if cfg.fixedWidth == 0 && uint64(blobLen) > math.MaxUint32 {
		return nil, fmt.Errorf("zerotable: value blob too large: %d bytes", blobLen)
	}

	var flags uint16
	if cfg.reverse {
		flags |= flagReverse
	}
	if cfg.fixedWidth == 0 {
		flags |= flagVarLen
	}

	size := headerSize + len(pairs)*keyWidth + blobLen
	if cfg.fixedWidth == 0 {
		size += (len(pairs) + 1) * 4
	}
	out := make([]byte, 0, size)

	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint16(out, Version)
	out = binary.LittleEndian.AppendUint16(out, flags)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(pairs)))
	out = binary.LittleEndian.AppendUint16(out, uint16(keyWidth))
	out = binary.LittleEndian.AppendUint16(out, 0)
	out = binary.LittleEndian.AppendUint32(out, uint32(cfg.fixedWidth))

	for _, p := range pairs {
		out = append(out, p.Key...)
		out = append(out, make([]byte, keyWidth-len(p.Key))...)
	}

	if cfg.fixedWidth == 0 {
		off := uint32(0)
		out = binary.LittleEndian.AppendUint32(out, off)
		for _, p := range pairs {
			off += uint32(len(p.Value))
			out = binary.LittleEndian.AppendUint32(out, off)
		}
	}
	for _, p := range pairs {
		out = append(out, p.Value...)
	}

	return out, nil
}

// Build marshals pairs and loads the result.
func Build(pairs []Pair, opts ...Option) (*Table, error) {
	data, err := Marshal(pairs, opts...)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func applyOptions(opts []Option) buildConfig {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
