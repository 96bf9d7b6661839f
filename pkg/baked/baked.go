package baked

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

//go:embed data/*.yaml
var sources embed.FS

// Sources exposes the embedded YAML files.
func Sources() embed.FS { return sources }

// Spec ties a data key to its YAML source.
type Spec struct {
	Key  provider.DataKey
	Kind Kind
	File string
}

// Specs lists the baked tables.
var Specs = []Spec{
	{Key: GreetingKey, Kind: KindStrings, File: "data/greetings.yaml"},
	{Key: MessagesKey, Kind: KindMessages, File: "data/messages.yaml"},
	{Key: MonthNamesKey, Kind: KindMonths, File: "data/months.yaml"},
	{Key: WeekDataKey, Kind: KindWeek, File: "data/week.yaml"},
	{Key: HijriUmmAlQuraKey, Kind: KindHijri, File: "data/hijri_umalqura.yaml"},
}

// Table is a loaded baked table.
type Table struct {
	Key     provider.DataKey
	Table   *zerotable.Table
	Version string
}

var tables = sync.OnceValues(func() ([]Table, error) {
	out := make([]Table, 0, len(Specs))
	for _, s := range Specs {
		src, err := sources.ReadFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("baked: %w", err)
		}
		blob, err := Build(s.Kind, bytes.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("baked: %s: %w", s.File, err)
		}
		out = append(out, Table{Key: s.Key, Table: zerotable.MustLoad(blob.Data), Version: blob.Version})
	}
	return out, nil
})

// Tables builds the baked tables once and returns them.
func Tables() ([]Table, error) {
	return tables()
}

// Options returns loader options registering every baked table.
func Options() ([]provider.Option, error) {
	ts, err := Tables()
	if err != nil {
		return nil, err
	}
	opts := make([]provider.Option, 0, len(ts))
	for _, t := range ts {
		opts = append(opts, provider.WithTable(t.Key, t.Table, t.Version))
	}
	return opts, nil
}

// NewLoader returns a loader serving the baked tables plus extra options.
func NewLoader(extra ...provider.Option) (*provider.Loader, error) {
	opts, err := Options()
	if err != nil {
		return nil, err
	}
	return provider.NewLoader(append(opts, extra...)...)
}
