package provider_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/i18ndata/pkg/fallback"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

var (
	greetingKey = provider.MustKey("messages/greeting@1")
	weekKey     = provider.MustKey("calendar/week@1", provider.WithFallback(fallback.Config{Priority: fallback.PriorityRegion}))
	epochKey    = provider.MustKey("calendar/epoch@1", provider.Singleton())
)

func decodeString(b []byte) (string, error) {
	return zerotable.String(b), nil
}

func table(t *testing.T, kv ...string) *zerotable.Table {
	t.Helper()
	var pairs []zerotable.Pair
	for i := 0; i < len(kv); i += 2 {
		pairs = append(pairs, zerotable.StringPair(kv[i], []byte(kv[i+1])))
	}
	zerotable.SortPairs(pairs)
	tbl, err := zerotable.Build(pairs)
	require.NoError(t, err)
	return tbl
}

func TestLoad_FallbackToLanguage(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(greetingKey, table(t, "en", "Hello", "und", "Hi"), "v1"))
	require.NoError(t, err)

	req := provider.NewRequest(greetingKey, locale.MustParse("en-GB"))
	assert.Equal(t, []locale.ID{locale.MustParse("en-GB"), locale.MustParse("en"), locale.Und}, l.Candidates(req))

	resp, err := provider.Load(l, req, decodeString)
	require.NoError(t, err)
	defer resp.Release()

	assert.Equal(t, "Hello", resp.Payload.Get())
	assert.True(t, resp.Payload.IsBorrowed())
	assert.Equal(t, "en", resp.Metadata.Locale.String())
	assert.Equal(t, "v1", resp.Metadata.Version)
}

func TestLoad_FallbackToUnd(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(greetingKey, table(t, "und", "Hi"), "v1"))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(greetingKey, locale.MustParse("fr-CA")), decodeString)
	require.NoError(t, err)
	assert.Equal(t, "Hi", resp.Payload.Get())
	assert.True(t, resp.Metadata.Locale.IsUnd())
}

func TestLoad_UnregisteredKey(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader()
	require.NoError(t, err)

	require.NotPanics(t, func() {
		_, err = provider.Load(l, provider.NewRequest(greetingKey, locale.MustParse("en")), decodeString)
	})
	require.ErrorIs(t, err, provider.ErrMissingPayload)

	var mpe *provider.MissingPayloadError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, provider.ReasonKeyNotRegistered, mpe.Reason)
	assert.Equal(t, greetingKey, mpe.Key)
}

func TestLoad_MissingUniversalEntry(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(greetingKey, table(t, "de", "Hallo"), "v1"))
	require.NoError(t, err)

	_, err = provider.Load(l, provider.NewRequest(greetingKey, locale.MustParse("fr")), decodeString)
	var mpe *provider.MissingPayloadError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, provider.ReasonFallbackExhausted, mpe.Reason)
}

func TestLoad_FallbackDisabled(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(greetingKey, table(t, "en", "Hello", "und", "Hi"), "v1"))
	require.NoError(t, err)

	req := provider.Request{Key: greetingKey, Locale: locale.MustParse("en-GB")}
	_, err = provider.Load(l, req, decodeString)
	var mpe *provider.MissingPayloadError
	require.ErrorAs(t, err, &mpe)
	assert.Equal(t, provider.ReasonLocaleNotFound, mpe.Reason)

	req.Locale = locale.MustParse("en")
	resp, err := provider.Load(l, req, decodeString)
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Payload.Get())
}

func TestLoad_Singleton(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(epochKey, table(t, "und", "227015"), "v1"))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(epochKey, locale.MustParse("ar-SA")), decodeString)
	require.NoError(t, err)
	assert.Equal(t, "227015", resp.Payload.Get())
	assert.True(t, resp.Metadata.Locale.IsUnd())
}

func TestLoad_RegionPriorityKey(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(weekKey, table(t, "und", "mon", "und-US", "sun"), "v1"))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(weekKey, locale.MustParse("es-US")), decodeString)
	require.NoError(t, err)
	assert.Equal(t, "sun", resp.Payload.Get())
	assert.Equal(t, "und-US", resp.Metadata.Locale.String())
}

func TestLoad_SameChainPrefixAcrossTables(t *testing.T) {
	t.Parallel()

	otherKey := provider.MustKey("messages/farewell@1")
	var seenA, seenB []string
	record := func(seen *[]string, has ...string) provider.Source {
		return provider.SourceFunc(func(_ provider.DataKey, id locale.ID) (provider.Entry, bool, error) {
			*seen = append(*seen, id.String())
			for _, h := range has {
				if id.String() == h {
					return provider.Entry{Bytes: []byte(h)}, true, nil
				}
			}
			return provider.Entry{}, false, nil
		})
	}

	l, err := provider.NewLoader(
		provider.WithSource(greetingKey, record(&seenA, "sr-Latn", "und")),
		provider.WithSource(otherKey, record(&seenB, "und")),
	)
	require.NoError(t, err)

	id := locale.MustParse("sr-ME")
	_, err = provider.Load(l, provider.NewRequest(greetingKey, id), decodeString)
	require.NoError(t, err)
	_, err = provider.Load(l, provider.NewRequest(otherKey, id), decodeString)
	require.NoError(t, err)

	assert.Equal(t, []string{"sr-ME", "sr-Latn-ME", "sr-Latn"}, seenA)
	assert.Equal(t, []string{"sr-ME", "sr-Latn-ME", "sr-Latn", "und"}, seenB)
	assert.Equal(t, seenA, seenB[:len(seenA)])
}

func TestLoad_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	l, err := provider.NewLoader(provider.WithSource(greetingKey, provider.SourceFunc(
		func(provider.DataKey, locale.ID) (provider.Entry, bool, error) { return provider.Entry{}, false, boom },
	)))
	require.NoError(t, err)

	_, err = provider.Load(l, provider.NewRequest(greetingKey, locale.Und), decodeString)
	require.ErrorIs(t, err, provider.ErrSource)
	require.ErrorIs(t, err, boom)
}

func TestLoad_DecodeErrorReleasesLease(t *testing.T) {
	t.Parallel()

	released := 0
	l, err := provider.NewLoader(provider.WithSource(greetingKey, provider.SourceFunc(
		func(provider.DataKey, locale.ID) (provider.Entry, bool, error) {
			return provider.Entry{Bytes: []byte("x"), Release: func() { released++ }}, true, nil
		},
	)))
	require.NoError(t, err)

	_, err = provider.Load(l, provider.NewRequest(greetingKey, locale.Und), func([]byte) (int, error) {
		return 0, fmt.Errorf("bad data")
	})
	require.Error(t, err)
	assert.Equal(t, 1, released)
}

func TestLoad_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	released := 0
	l, err := provider.NewLoader(provider.WithSource(greetingKey, provider.SourceFunc(
		func(provider.DataKey, locale.ID) (provider.Entry, bool, error) {
			return provider.Entry{Bytes: []byte("x"), Release: func() { released++ }}, true, nil
		},
	)))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(greetingKey, locale.Und), decodeString)
	require.NoError(t, err)
	resp.Release()
	resp.Release()
	assert.Equal(t, 1, released)
}

func TestLoad_EmptyEntryUsesDefault(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithTable(greetingKey, table(t, "und", ""), "v1"))
	require.NoError(t, err)

	resp, err := provider.Load(l, provider.NewRequest(greetingKey, locale.Und), func([]byte) ([]string, error) {
		return nil, errors.New("must not decode")
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Payload.Get())
	assert.False(t, resp.Payload.IsBorrowed())
}

type weekData struct{ FirstDay int }

func TestLoad_Erased(t *testing.T) {
	t.Parallel()

	l, err := provider.NewLoader(provider.WithErased(weekKey, map[string]any{
		"und":    weekData{FirstDay: 1},
		"und-US": weekData{FirstDay: 7},
		"und-DE": "not week data",
	}, "v2"))
	require.NoError(t, err)

	t.Run("delivers materialized value", func(t *testing.T) {
		t.Parallel()
		resp, err := provider.Load[weekData](l, provider.NewRequest(weekKey, locale.MustParse("en-US")), nil)
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Payload.Get().FirstDay)
		assert.Equal(t, provider.Owned, resp.Payload.Ownership())
		assert.Equal(t, "v2", resp.Metadata.Version)
	})

	t.Run("reports type mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := provider.Load[weekData](l, provider.NewRequest(weekKey, locale.MustParse("de-DE")), nil)
		require.ErrorIs(t, err, provider.ErrTypeMismatch)

		var tme *provider.TypeMismatchError
		require.ErrorAs(t, err, &tme)
		assert.Equal(t, reflect.TypeFor[weekData](), tme.Expected)
		assert.Equal(t, reflect.TypeFor[string](), tme.Actual)
	})
}

func TestTypedReceiver(t *testing.T) {
	t.Parallel()

	t.Run("erased succeeds iff types match", func(t *testing.T) {
		t.Parallel()
		values := []any{42, int64(42), "42", 4.2, []int{42}, nil}
		for _, v := range values {
			r := provider.NewReceiver[int](nil)
			err := r.ReceiveErased(v, provider.Owned)
			if reflect.TypeOf(v) == r.ExpectedType() {
				require.NoError(t, err, "%T", v)
				p, ok := r.Payload()
				require.True(t, ok)
				assert.Equal(t, 42, p.Get())
			} else {
				require.ErrorIs(t, err, provider.ErrTypeMismatch, "%T", v)
			}
		}
	})

	t.Run("erased rejects interface implementers", func(t *testing.T) {
		t.Parallel()
		r := provider.NewReceiver[fmt.Stringer](nil)
		err := r.ReceiveErased(time.Second, provider.Owned)
		require.ErrorIs(t, err, provider.ErrTypeMismatch)

		var tme *provider.TypeMismatchError
		require.ErrorAs(t, err, &tme)
		assert.Equal(t, reflect.TypeFor[fmt.Stringer](), tme.Expected)
		assert.Equal(t, reflect.TypeFor[time.Duration](), tme.Actual)

		_, ok := r.Payload()
		assert.False(t, ok)
	})

	t.Run("mismatch keeps prior state", func(t *testing.T) {
		t.Parallel()
		r := provider.NewReceiver[int](nil)
		require.NoError(t, r.ReceiveErased(7, provider.Borrowed))
		require.Error(t, r.ReceiveErased("seven", provider.Owned))

		p, ok := r.Payload()
		require.True(t, ok)
		assert.Equal(t, 7, p.Get())
		assert.True(t, p.IsBorrowed())
	})

	t.Run("wire without decoder fails", func(t *testing.T) {
		t.Parallel()
		r := provider.NewReceiver[int](nil)
		require.Error(t, r.ReceiveFromWire([]byte{1}, provider.Borrowed))
		_, ok := r.Payload()
		assert.False(t, ok)
	})

	t.Run("default stores zero value", func(t *testing.T) {
		t.Parallel()
		r := provider.NewReceiver[int](nil)
		require.NoError(t, r.ReceiveErased(5, provider.Borrowed))
		require.NoError(t, r.ReceiveDefault())
		p, _ := r.Payload()
		assert.Zero(t, p.Get())
		assert.Equal(t, provider.Owned, p.Ownership())
	})
}

func TestDataKey(t *testing.T) {
	t.Parallel()

	k := provider.MustKey("calendar/hijri_umalqura@1", provider.Singleton())
	assert.Equal(t, "calendar/hijri_umalqura@1", k.Path())
	assert.Equal(t, "1", k.Version())
	assert.True(t, k.IsSingleton())
	assert.Equal(t, provider.MustKey("calendar/hijri_umalqura@1", provider.Singleton()), k)
	assert.Equal(t, provider.MustKey("calendar/hijri_umalqura@1").Hash(), k.Hash())
	assert.NotEqual(t, provider.MustKey("calendar/hijri_umalqura@2").Hash(), k.Hash())

	for _, bad := range []string{"", "greeting@1", "messages/greeting", "messages/greeting@v1", "Messages/greeting@1", "messages//x@1"} {
		_, err := provider.NewKey(bad)
		require.ErrorIs(t, err, provider.ErrInvalidKey, bad)
	}
	assert.Panics(t, func() { provider.MustKey("bad") })
}

func TestNewLoader_Rejects(t *testing.T) {
	t.Parallel()

	tbl := table(t, "und", "x")
	_, err := provider.NewLoader(
		provider.WithTable(greetingKey, tbl, "v1"),
		provider.WithTable(greetingKey, tbl, "v1"),
	)
	require.ErrorIs(t, err, provider.ErrDuplicateKey)

	_, err = provider.NewLoader(provider.WithSource(greetingKey, nil))
	require.ErrorIs(t, err, provider.ErrNilSource)

	_, err = provider.NewLoader(provider.WithErased(greetingKey, map[string]any{"": 1}, "v1"))
	require.Error(t, err)
}
