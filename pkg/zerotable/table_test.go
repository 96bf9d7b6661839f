package zerotable_test

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

func pairs(kv ...string) []zerotable.Pair {
	out := make([]zerotable.Pair, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		out = append(out, zerotable.StringPair(kv[i], []byte(kv[i+1])))
	}
	return out
}

func TestBuildAndLookup(t *testing.T) {
	t.Parallel()

	tbl, err := zerotable.Build(pairs("en", "Hello", "en-GB", "Hiya", "fr", "", "und", "Hi"))
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, zerotable.Version, tbl.Version())
	assert.False(t, tbl.Reverse())

	t.Run("finds present keys", func(t *testing.T) {
		t.Parallel()
		v, ok := tbl.Lookup([]byte("en-GB"))
		require.True(t, ok)
		assert.Equal(t, "Hiya", string(v))

		v, ok = tbl.LookupString("und")
		require.True(t, ok)
		assert.Equal(t, "Hi", string(v))
	})

	t.Run("empty values are distinct from missing", func(t *testing.T) {
		t.Parallel()
		v, ok := tbl.LookupString("fr")
		require.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("missing key is not an error", func(t *testing.T) {
		t.Parallel()
		v, ok := tbl.LookupString("de")
		assert.False(t, ok)
		assert.Nil(t, v)

		_, ok = tbl.LookupString("en-G")
		assert.False(t, ok)
	})

	t.Run("iterates in storage order", func(t *testing.T) {
		t.Parallel()
		var keys []string
		for k := range tbl.Keys() {
			keys = append(keys, string(k))
		}
		assert.Equal(t, []string{"en", "en-GB", "fr", "und"}, keys)
	})
}

func TestReverseOrder(t *testing.T) {
	t.Parallel()

	p := pairs("und", "3", "en", "1", "fr", "2")
	zerotable.SortPairs(p, zerotable.Reverse())
	assert.Equal(t, "und", string(p[0].Key))

	tbl, err := zerotable.Build(p, zerotable.Reverse())
	require.NoError(t, err)
	require.True(t, tbl.Reverse())

	for _, k := range []string{"en", "fr", "und"} {
		_, ok := tbl.LookupString(k)
		assert.True(t, ok, k)
	}
	_, ok := tbl.LookupString("de")
	assert.False(t, ok)

	_, err = zerotable.Marshal(pairs("en", "1", "fr", "2"), zerotable.Reverse())
	require.ErrorIs(t, err, zerotable.ErrUnsorted)
}

func TestFixedWidth(t *testing.T) {
	t.Parallel()

	tbl, err := zerotable.Build([]zerotable.Pair{
		{Key: []byte("001"), Value: []byte{1, 4}},
		{Key: []byte("US"), Value: []byte{7, 1}},
	}, zerotable.FixedWidth(2))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.FixedWidth())

	v, ok := tbl.LookupString("US")
	require.True(t, ok)
	assert.Equal(t, []byte{7, 1}, v)

	_, err = zerotable.Marshal([]zerotable.Pair{{Key: []byte("x"), Value: []byte{1}}}, zerotable.FixedWidth(2))
	require.ErrorIs(t, err, zerotable.ErrValueWidth)
}

func TestMarshalRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pairs []zerotable.Pair
		err   error
	}{
		{"duplicate keys", pairs("en", "a", "en", "b"), zerotable.ErrUnsorted},
		{"descending keys", pairs("fr", "a", "en", "b"), zerotable.ErrUnsorted},
		{"empty key", pairs("", "a"), zerotable.ErrInvalidKey},
		{"NUL in key", []zerotable.Pair{{Key: []byte("e\x00n")}}, zerotable.ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := zerotable.Marshal(tt.pairs)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEmptyTable(t *testing.T) {
	t.Parallel()

	tbl, err := zerotable.Build(nil)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
	_, ok := tbl.LookupString("und")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	good, err := zerotable.Marshal(pairs("en", "Hello", "und", "Hi"))
	require.NoError(t, err)

	t.Run("refuses unknown version", func(t *testing.T) {
		t.Parallel()
		data := slices.Clone(good)
		binary.LittleEndian.PutUint16(data[4:], 2)
		_, err := zerotable.Load(data)
		require.ErrorIs(t, err, zerotable.ErrUnsupportedWireVersion)

		var ve *zerotable.VersionError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, uint16(2), ve.Got)
	})

	t.Run("rejects bad magic", func(t *testing.T) {
		t.Parallel()
		data := slices.Clone(good)
		copy(data, "NOPE")
		_, err := zerotable.Load(data)
		require.ErrorIs(t, err, zerotable.ErrCorrupt)
	})

	t.Run("rejects truncated data", func(t *testing.T) {
		t.Parallel()
		for n := range len(good) {
			_, err := zerotable.Load(good[:n])
			require.ErrorIs(t, err, zerotable.ErrCorrupt, "length %d", n)
		}
	})

	t.Run("rejects unknown flags", func(t *testing.T) {
		t.Parallel()
		data := slices.Clone(good)
		binary.LittleEndian.PutUint16(data[6:], 0x80)
		_, err := zerotable.Load(data)
		require.ErrorIs(t, err, zerotable.ErrCorrupt)
	})

	t.Run("round trips bytes", func(t *testing.T) {
		t.Parallel()
		tbl := zerotable.MustLoad(good)
		assert.Equal(t, good, tbl.Bytes())
	})
}

func TestLookupRandomized(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	set := map[string]bool{}
	for len(set) < 500 {
		set[randomKey(rng)] = true
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	p := make([]zerotable.Pair, len(keys))
	for i, k := range keys {
		p[i] = zerotable.StringPair(k, []byte(fmt.Sprint(i)))
	}

	for _, reverse := range []bool{false, true} {
		var opts []zerotable.Option
		if reverse {
			opts = append(opts, zerotable.Reverse())
		}
		cp := slices.Clone(p)
		zerotable.SortPairs(cp, opts...)
		tbl, err := zerotable.Build(cp, opts...)
		require.NoError(t, err)

		for i, k := range keys {
			v, ok := tbl.LookupString(k)
			require.True(t, ok, k)
			assert.Equal(t, fmt.Sprint(i), string(v))
		}
		for range 2000 {
			k := randomKey(rng)
			_, ok := tbl.LookupString(k)
			assert.Equal(t, set[k], ok, k)
		}
	}
}

func randomKey(rng *rand.Rand) string {
	const alphabet = "abcdefgh-XYZ"
	b := make([]byte, 1+rng.IntN(6))
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}
