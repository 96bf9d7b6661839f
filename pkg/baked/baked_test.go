package baked_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/i18ndata/pkg/baked"
	"github.com/dmitrymomot/i18ndata/pkg/calendar"
	"github.com/dmitrymomot/i18ndata/pkg/i18n"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

func loader(t *testing.T) *provider.Loader {
	t.Helper()
	l, err := baked.NewLoader()
	require.NoError(t, err)
	return l
}

func TestTables(t *testing.T) {
	t.Parallel()

	ts, err := baked.Tables()
	require.NoError(t, err)
	require.Len(t, ts, len(baked.Specs))
	for _, tbl := range ts {
		_, ok := tbl.Table.LookupString("und")
		assert.True(t, ok, tbl.Key.Path())
		assert.NotEmpty(t, tbl.Version)
	}
}

func TestGreeting(t *testing.T) {
	t.Parallel()
	l := loader(t)

	tests := []struct {
		locale   string
		want     string
		resolved string
	}{
		{"en-GB", "Hello", "en"},
		{"de-CH", "Grüezi", "de-CH"},
		{"sw-KE", "Hi", "und"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			t.Parallel()
			resp, err := provider.Load(l, provider.NewRequest(baked.GreetingKey, locale.MustParse(tt.locale)), baked.DecodeGreeting)
			require.NoError(t, err)
			defer resp.Release()
			assert.Equal(t, tt.want, resp.Payload.Get())
			assert.Equal(t, tt.resolved, resp.Metadata.Locale.String())
			assert.Equal(t, "2025.1", resp.Metadata.Version)
		})
	}
}

func TestMonthNames(t *testing.T) {
	t.Parallel()
	l := loader(t)

	resp, err := provider.Load(l, provider.NewRequest(baked.MonthNamesKey, locale.MustParse("de-AT")), baked.DecodeMonthNames)
	require.NoError(t, err)
	defer resp.Release()

	names := resp.Payload.Get()
	assert.Equal(t, "März", names.Name(time.March))
	assert.Len(t, names.All(), 12)
}

func TestMessages(t *testing.T) {
	t.Parallel()
	l := loader(t)

	resp, err := provider.Load(l, provider.NewRequest(baked.MessagesKey, locale.Und), i18n.DecodeCatalog)
	require.NoError(t, err)
	defer resp.Release()

	msgs := resp.Payload.Get()
	assert.Equal(t, 4, msgs.Len())
	assert.Equal(t, []string{"errors.not_found", "goodbye", "items", "welcome"}, msgs.Keys())
	got, ok := msgs.Get("goodbye")
	assert.True(t, ok)
	assert.Equal(t, "Goodbye, {{name}}!", got)
	_, ok = msgs.Get("missing")
	assert.False(t, ok)
}

func TestWeekData(t *testing.T) {
	t.Parallel()
	l := loader(t)

	tests := []struct {
		locale   string
		first    time.Weekday
		minDays  uint8
		resolved string
	}{
		{"en-US", time.Sunday, 1, "und-US"},
		{"de", time.Monday, 4, "und-DE"},
		{"en-GB", time.Monday, 4, "und-GB"},
		{"ar-SA", time.Sunday, 1, "und-SA"},
		{"tlh", time.Monday, 1, "und"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			t.Parallel()
			resp, err := provider.Load(l, provider.NewRequest(baked.WeekDataKey, locale.MustParse(tt.locale)), baked.DecodeWeekData)
			require.NoError(t, err)
			defer resp.Release()
			assert.Equal(t, tt.first, resp.Payload.Get().FirstDay)
			assert.Equal(t, tt.minDays, resp.Payload.Get().MinDays)
			assert.Equal(t, tt.resolved, resp.Metadata.Locale.String())
		})
	}
}

func TestHijri(t *testing.T) {
	t.Parallel()
	l := loader(t)

	resp, err := provider.Load(l, provider.NewRequest(baked.HijriUmmAlQuraKey, locale.MustParse("ar-SA")), baked.DecodeHijri)
	require.NoError(t, err)
	defer resp.Release()

	assert.Equal(t, "und", resp.Metadata.Locale.String())
	tbl := resp.Payload.Get()
	assert.Equal(t, 1300, tbl.StartYear())
	assert.Equal(t, 1601, tbl.EndYear())

	y, ok := tbl.Year(1446)
	require.True(t, ok)
	assert.Equal(t, calendar.PackedYear(0x026E), y.Pack())
	assert.Equal(t, calendar.FixedFromGregorian(2024, time.July, 7), y.NewYear(1446))

	y, ok = tbl.Year(1447)
	require.True(t, ok)
	assert.Equal(t, -1, y.StartOffset)
	assert.Equal(t, calendar.FixedFromGregorian(2025, time.June, 26), y.NewYear(1447))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("canonicalizes keys", func(t *testing.T) {
		t.Parallel()
		blob, err := baked.Build(baked.KindStrings, strings.NewReader("version: v1\nentries:\n  und: a\n  EN_gb: b\n"))
		require.NoError(t, err)
		assert.Equal(t, "v1", blob.Version)
		tbl, err := zerotable.Load(blob.Data)
		require.NoError(t, err)
		v, ok := tbl.LookupString("en-GB")
		require.True(t, ok)
		assert.Equal(t, "b", string(v))
	})

	t.Run("week table is fixed width", func(t *testing.T) {
		t.Parallel()
		blob, err := baked.Build(baked.KindWeek, strings.NewReader("version: v1\nentries:\n  und: {first_day: mon, min_days: 1}\n"))
		require.NoError(t, err)
		tbl, err := zerotable.Load(blob.Data)
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.FixedWidth())
	})

	t.Run("hijri table has a single universal entry", func(t *testing.T) {
		t.Parallel()
		src := "version: v1\nstart_year: 1446\nyears:\n" +
			"  - {year: 1446, new_year: \"2024-07-07\", months: SLLLSLLSSLSS}\n" +
			"  - {year: 1447, new_year: \"2025-06-26\", months: LSLLLSLSLSLS}\n"
		blob, err := baked.Build(baked.KindHijri, strings.NewReader(src))
		require.NoError(t, err)
		tbl, err := zerotable.Load(blob.Data)
		require.NoError(t, err)
		assert.Equal(t, 1, tbl.Len())
	})

	rejects := []struct {
		name string
		kind baked.Kind
		src  string
		err  error
	}{
		{"unknown kind", baked.Kind("nope"), "", baked.ErrUnknownKind},
		{"no und", baked.KindStrings, "version: v1\nentries:\n  en: a\n", baked.ErrMissingUnd},
		{"no version", baked.KindStrings, "entries:\n  und: a\n", baked.ErrInvalidData},
		{"unknown field", baked.KindStrings, "version: v1\nlocales: {}\n", baked.ErrInvalidData},
		{"bad locale", baked.KindStrings, "version: v1\nentries:\n  und: a\n  '!!': b\n", baked.ErrInvalidData},
		{"duplicate locale", baked.KindStrings, "version: v1\nentries:\n  und: a\n  en-gb: b\n  en-GB: c\n", baked.ErrInvalidData},
		{"eleven months", baked.KindMonths, "version: v1\nentries:\n  und: [a, b, c, d, e, f, g, h, i, j, k]\n", baked.ErrInvalidData},
		{"bad weekday", baked.KindWeek, "version: v1\nentries:\n  und: {first_day: xyz, min_days: 1}\n", baked.ErrInvalidData},
		{"zero min days", baked.KindWeek, "version: v1\nentries:\n  und: {first_day: mon, min_days: 0}\n", baked.ErrInvalidData},
		{"hijri gap", baked.KindHijri, "version: v1\nstart_year: 1446\nyears:\n  - {year: 1447, new_year: \"2025-06-26\", months: LSLLLSLSLSLS}\n", baked.ErrInvalidData},
		{"hijri bad months", baked.KindHijri, "version: v1\nstart_year: 1446\nyears:\n  - {year: 1446, new_year: \"2024-07-07\", months: SLLLSLLSSLSX}\n", baked.ErrInvalidData},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := baked.Build(tt.kind, strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), err.Error())
		})
	}
}
