package baked

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/i18ndata/pkg/calendar"
	"github.com/dmitrymomot/i18ndata/pkg/i18n"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/packed"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

var (
	ErrUnknownKind = errors.New("baked: unknown data kind")
	ErrMissingUnd  = errors.New("baked: table has no und entry")
	ErrInvalidData = errors.New("baked: invalid source data")
)

// Kind selects how a YAML source is validated and serialized.
type Kind string

const (
	KindStrings  Kind = "strings"
	KindMonths   Kind = "months"
	KindMessages Kind = "messages"
	KindWeek     Kind = "week"
	KindHijri    Kind = "hijri"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindStrings, KindMonths, KindMessages, KindWeek, KindHijri}
}

// Blob is a built table together with its data version.
type Blob struct {
	Data    []byte
	Version string
}

// Build validates the YAML source in r and serializes it into a table blob.
// The blob is loaded back before it is returned.
func Build(kind Kind, r io.Reader) (Blob, error) {
	var (
		pairs   []zerotable.Pair
		opts    []zerotable.Option
		version string
		err     error
	)

	switch kind {
	case KindStrings:
		version, pairs, err = buildEntries(r, func(s string) ([]byte, error) {
			return []byte(s), nil
		})
	case KindMonths:
		version, pairs, err = buildEntries(r, func(names []string) ([]byte, error) {
			if len(names) != 12 {
				return nil, fmt.Errorf("%d month names, want 12", len(names))
			}
			return zerotable.EncodeStringList(names), nil
		})
	case KindMessages:
		version, pairs, err = buildEntries(r, encodeMessages)
	case KindWeek:
		opts = append(opts, zerotable.FixedWidth(WeekCodec{}.Size()))
		version, pairs, err = buildEntries(r, encodeWeek)
	case KindHijri:
		version, pairs, err = buildHijri(r)
	default:
		return Blob{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return Blob{}, err
	}

	zerotable.SortPairs(pairs, opts...)
	data, err := zerotable.Marshal(pairs, opts...)
	if err != nil {
		return Blob{}, fmt.Errorf("baked: %s: %w", kind, err)
	}
	t, err := zerotable.Load(data)
	if err != nil {
		return Blob{}, fmt.Errorf("baked: %s: %w", kind, err)
	}
	if _, ok := t.Lookup([]byte(locale.UndLanguage)); !ok {
		return Blob{}, fmt.Errorf("%w: %s", ErrMissingUnd, kind)
	}

	return Blob{Data: data, Version: version}, nil
}

type sourceFile[T any] struct {
	Version string       `yaml:"version"`
	Entries map[string]T `yaml:"entries"`
}

func buildEntries[T any](r io.Reader, encode func(T) ([]byte, error)) (string, []zerotable.Pair, error) {
	var f sourceFile[T]
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if f.Version == "" {
		return "", nil, fmt.Errorf("%w: missing version", ErrInvalidData)
	}

	pairs := make([]zerotable.Pair, 0, len(f.Entries))
	seen := make(map[string]string, len(f.Entries))
	for key, v := range f.Entries {
		id, err := locale.Parse(key)
		if err != nil {
			return "", nil, fmt.Errorf("%w: key %q: %w", ErrInvalidData, key, err)
		}
		canonical := id.String()
		if prev, ok := seen[canonical]; ok {
			return "", nil, fmt.Errorf("%w: keys %q and %q are the same locale", ErrInvalidData, prev, key)
		}
		seen[canonical] = key

		b, err := encode(v)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %w", ErrInvalidData, canonical, err)
		}
		pairs = append(pairs, zerotable.StringPair(canonical, b))
	}
	return f.Version, pairs, nil
}

func encodeMessages(m map[string]any) ([]byte, error) {
	return i18n.EncodeCatalog(i18n.Flatten(m))
}

type weekEntry struct {
	FirstDay string `yaml:"first_day"`
	MinDays  uint8  `yaml:"min_days"`
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func encodeWeek(e weekEntry) ([]byte, error) {
	day, ok := weekdays[strings.ToLower(e.FirstDay)]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", e.FirstDay)
	}
	return packed.RoundTrip[WeekData](WeekCodec{}, WeekData{FirstDay: day, MinDays: e.MinDays})
}

type hijriFile struct {
	Version   string `yaml:"version"`
	StartYear int    `yaml:"start_year"`
	Years     []struct {
		Year    int    `yaml:"year"`
		NewYear string `yaml:"new_year"`
		Months  string `yaml:"months"`
	} `yaml:"years"`
}

// maxHijriDrift bounds how far an observed new year may be from the tabular one.
const maxHijriDrift = 2

func buildHijri(r io.Reader) (string, []zerotable.Pair, error) {
	var f hijriFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if f.Version == "" || len(f.Years) == 0 {
		return "", nil, fmt.Errorf("%w: missing version or years", ErrInvalidData)
	}

	infos := make([]calendar.YearInfo, 0, len(f.Years))
	for i, y := range f.Years {
		if y.Year != f.StartYear+i {
			return "", nil, fmt.Errorf("%w: year %d out of sequence", ErrInvalidData, y.Year)
		}
		day, err := time.Parse(time.DateOnly, y.NewYear)
		if err != nil {
			return "", nil, fmt.Errorf("%w: year %d: %w", ErrInvalidData, y.Year, err)
		}
		if len(y.Months) != 12 || strings.Trim(y.Months, "LS") != "" {
			return "", nil, fmt.Errorf("%w: year %d: months %q", ErrInvalidData, y.Year, y.Months)
		}
		var months [12]bool
		for m := range months {
			months[m] = y.Months[m] == 'L'
		}
		info, err := calendar.NewYearInfo(y.Year, calendar.FixedFromTime(day), months)
		if err != nil {
			return "", nil, err
		}
		infos = append(infos, info)
	}

	b, err := calendar.EncodeYearTable(f.StartYear, infos)
	if err != nil {
		return "", nil, err
	}
	t, err := calendar.ValidateYearTable(b)
	if err != nil {
		return "", nil, err
	}
	if err := calendar.CrossCheck(t, calendar.Tabular{}, maxHijriDrift); err != nil {
		return "", nil, err
	}

	return f.Version, []zerotable.Pair{zerotable.StringPair(locale.UndLanguage, b)}, nil
}
