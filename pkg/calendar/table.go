package calendar

import (
	"encoding/binary"
	"fmt"

	"github.com/dmitrymomot/i18ndata/pkg/packed"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

const tableHeader = 4

// YearTable is a zero-copy view over consecutive packed years.
//
// Wire layout: int32 little-endian start year followed by one packed uint16
// per year.
type YearTable struct {
	start int
	years zerotable.Uint16s
}

// EncodeYearTable packs infos for the years start, start+1, ...
// Each record is validated before it is written.
func EncodeYearTable(start int, infos []YearInfo) ([]byte, error) {
	out := make([]byte, tableHeader, tableHeader+2*len(infos))
	binary.LittleEndian.PutUint32(out, uint32(int32(start)))

	var codec YearCodec
	for i, y := range infos {
		b, err := packed.RoundTrip[YearInfo](codec, y)
		if err != nil {
			return nil, fmt.Errorf("calendar: year %d: %w", start+i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// DecodeYearTable returns a view over b. Only the layout is checked; records
// are trusted and must have passed ValidateYearTable once.
func DecodeYearTable(b []byte) (YearTable, error) {
	if len(b) < tableHeader || (len(b)-tableHeader)%2 != 0 {
		return YearTable{}, packed.Malformed("hijri table", "length %d is not a header plus whole records", len(b))
	}
	return YearTable{
		start: int(int32(binary.LittleEndian.Uint32(b))),
		years: zerotable.Uint16s(b[tableHeader:]),
	}, nil
}

// ValidateYearTable decodes b and checks every record and that each year
// begins the day after the previous one ends.
func ValidateYearTable(b []byte) (YearTable, error) {
	t, err := DecodeYearTable(b)
	if err != nil {
		return YearTable{}, err
	}

	infos, err := packed.ValidateAll[YearInfo](YearCodec{}, b[tableHeader:])
	if err != nil {
		return YearTable{}, err
	}
	for i := 1; i < len(infos); i++ {
		prevYear := t.start + i - 1
		end := infos[i-1].NewYear(prevYear) + RataDie(infos[i-1].DaysInYear())
		if got := infos[i].NewYear(prevYear + 1); got != end {
			return YearTable{}, packed.Malformed("hijri table", "year %d starts on day %d, previous year ends before day %d", prevYear+1, got, end)
		}
	}
	return t, nil
}

// StartYear returns the first Hijri year in the table.
func (t YearTable) StartYear() int { return t.start }

// EndYear returns the year after the last one in the table.
func (t YearTable) EndYear() int { return t.start + t.years.Len() }

// Len returns the number of years.
func (t YearTable) Len() int { return t.years.Len() }

// Contains reports whether year is in the table.
func (t YearTable) Contains(year int) bool {
	return year >= t.start && year < t.EndYear()
}

// Year returns the info of year.
func (t YearTable) Year(year int) (YearInfo, bool) {
	if !t.Contains(year) {
		return YearInfo{}, false
	}
	return PackedYear(t.years.At(year - t.start)).Unpack(), true
}

// CrossCheck compares every new year in t with ref and fails when one is more
// than maxDrift days away.
func CrossCheck(t YearTable, ref Tabular, maxDrift int) error {
	for y := t.start; y < t.EndYear(); y++ {
		info, _ := t.Year(y)
		drift := int(info.NewYear(y) - ref.NewYear(y))
		if drift < -maxDrift || drift > maxDrift {
			return fmt.Errorf("%w: year %d is %d days off", ErrDrift, y, drift)
		}
	}
	return nil
}
