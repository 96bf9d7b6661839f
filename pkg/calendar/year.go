package calendar

import (
	"encoding/binary"

	"github.com/dmitrymomot/i18ndata/pkg/packed"
)

const (
	// IslamicEpochFriday is the RataDie of 1 Muharram 1 AH (July 16, 622 Julian).
	IslamicEpochFriday RataDie = 227015

	ShortYearLen = 354
	LongYearLen  = 355

	// MaxStartOffset is the largest offset from the mean new year a record can hold.
	MaxStartOffset = 7

	offsetShift = 12
	offsetWidth = 3
)

// MeanNewYear returns the start of year y under a mean year of 10631/30 days.
func MeanNewYear(year int) RataDie {
	return IslamicEpochFriday + RataDie(floorDiv(int64(year-1)*10631, 30))
}

// YearInfo describes one Hijri year.
type YearInfo struct {
	// MonthLengths[i] is true when month i+1 has 30 days.
	MonthLengths [12]bool

	// StartOffset is the distance in days of the new year from MeanNewYear.
	StartOffset int
}

// NewYearInfo builds the YearInfo of year whose first day is newYear.
func NewYearInfo(year int, newYear RataDie, months [12]bool) (YearInfo, error) {
	off := int(newYear - MeanNewYear(year))
	if !packed.FitsSignMagnitude(off, offsetWidth) {
		return YearInfo{}, packed.Malformed("hijri year", "year %d starts %d days from the mean new year", year, off)
	}
	return YearInfo{MonthLengths: months, StartOffset: off}, nil
}

// DaysInMonth returns 29 or 30 for month 1..12.
func (y YearInfo) DaysInMonth(month int) int {
	if y.MonthLengths[month-1] {
		return 30
	}
	return 29
}

// DaysInYear returns the total length of the year.
func (y YearInfo) DaysInYear() int {
	return y.LastDayOfMonth(12)
}

// LastDayOfMonth returns the day of year of the last day of month. Month 0 yields 0.
func (y YearInfo) LastDayOfMonth(month int) int {
	days := 29 * month
	for i := range month {
		if y.MonthLengths[i] {
			days++
		}
	}
	return days
}

// NewYear returns the first day of year.
func (y YearInfo) NewYear(year int) RataDie {
	return MeanNewYear(year) + RataDie(y.StartOffset)
}

// IsLong reports whether the year has 355 days.
func (y YearInfo) IsLong() bool {
	return y.DaysInYear() == LongYearLen
}

// PackedYear is the 16-bit record of a YearInfo.
type PackedYear uint16

// Pack encodes y. The caller must ensure the offset fits.
func (y YearInfo) Pack() PackedYear {
	var w uint64
	for i, long := range y.MonthLengths {
		w = packed.SetBit(w, uint(i), long)
	}
	w = packed.PutSignMagnitude(w, offsetShift, offsetWidth, y.StartOffset)
	return PackedYear(w)
}

// Unpack extracts the YearInfo without validation.
func (p PackedYear) Unpack() YearInfo {
	var y YearInfo
	w := uint64(p)
	for i := range y.MonthLengths {
		y.MonthLengths[i] = packed.Bit(w, uint(i))
	}
	y.StartOffset = packed.SignMagnitude(w, offsetShift, offsetWidth)
	return y
}

// YearCodec is the packed.Codec for YearInfo records.
type YearCodec struct{}

var _ packed.Codec[YearInfo] = YearCodec{}

func (YearCodec) Size() int { return 2 }

func (YearCodec) Encode(y YearInfo) ([]byte, error) {
	if !packed.FitsSignMagnitude(y.StartOffset, offsetWidth) {
		return nil, packed.ErrOutOfRange
	}
	return binary.LittleEndian.AppendUint16(nil, uint16(y.Pack())), nil
}

func (YearCodec) Decode(b []byte) YearInfo {
	return PackedYear(binary.LittleEndian.Uint16(b)).Unpack()
}

func (c YearCodec) Validate(b []byte) (YearInfo, error) {
	if len(b) != 2 {
		return YearInfo{}, &packed.MalformedError{Record: "hijri year", Reason: "record must be 2 bytes", Err: packed.ErrShortRecord}
	}
	w := uint64(binary.LittleEndian.Uint16(b))
	if packed.Bit(w, offsetShift) && packed.Field(w, offsetShift+1, offsetWidth) == 0 {
		return YearInfo{}, packed.Malformed("hijri year", "negative zero offset")
	}
	y := c.Decode(b)
	if n := y.DaysInYear(); n != ShortYearLen && n != LongYearLen {
		return YearInfo{}, packed.Malformed("hijri year", "year has %d days", n)
	}
	return y, nil
}
