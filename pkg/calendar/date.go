package calendar

import "fmt"

// Date is a Hijri calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d AH", d.Year, d.Month, d.Day)
}

// UmmAlQura converts dates with a year table, using the tabular calendar for
// years outside it.
type UmmAlQura struct {
	table YearTable
	ref   Tabular
}

// NewUmmAlQura returns a calendar backed by t.
func NewUmmAlQura(t YearTable) UmmAlQura {
	return UmmAlQura{table: t}
}

// Table returns the backing table.
func (c UmmAlQura) Table() YearTable { return c.table }

// YearInfo returns the data of year and whether it came from the table.
// Years outside the table follow the tabular calendar, shifted so that they
// join the table without a gap or overlap.
func (c UmmAlQura) YearInfo(year int) (YearInfo, bool) {
	if y, ok := c.table.Year(year); ok {
		return y, true
	}
	info := c.ref.YearInfo(year)
	info.StartOffset += c.shift(year)
	return info, false
}

func (c UmmAlQura) shift(year int) int {
	if c.table.Len() == 0 {
		return 0
	}
	if year >= c.table.EndYear() {
		last := c.table.EndYear() - 1
		info, _ := c.table.Year(last)
		end := info.NewYear(last) + RataDie(info.DaysInYear())
		return int(end - c.ref.NewYear(last+1))
	}
	first, _ := c.table.Year(c.table.start)
	return int(first.NewYear(c.table.start) - c.ref.NewYear(c.table.start))
}

// ToFixed returns the RataDie of d.
func (c UmmAlQura) ToFixed(d Date) (RataDie, error) {
	info, _ := c.YearInfo(d.Year)
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > info.DaysInMonth(d.Month) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	return info.NewYear(d.Year) + RataDie(info.LastDayOfMonth(d.Month-1)+d.Day-1), nil
}

// FromFixed returns the Hijri date of rd.
func (c UmmAlQura) FromFixed(rd RataDie) Date {
	year := int(floorDiv(int64(rd-IslamicEpochFriday)*30, 10631)) + 1
	info, _ := c.YearInfo(year)
	for rd < info.NewYear(year) {
		year--
		info, _ = c.YearInfo(year)
	}
	for rd >= info.NewYear(year)+RataDie(info.DaysInYear()) {
		year++
		info, _ = c.YearInfo(year)
	}

	dayOfYear := int(rd-info.NewYear(year)) + 1
	month := 1
	for month < 12 && dayOfYear > info.LastDayOfMonth(month) {
		month++
	}
	return Date{Year: year, Month: month, Day: dayOfYear - info.LastDayOfMonth(month-1)}
}
