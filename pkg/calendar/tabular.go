package calendar

// Tabular is the arithmetic Hijri calendar with the type II leap year rule
// (years 2, 5, 7, 10, 13, 16, 18, 21, 24, 26, 29 of each 30-year cycle) and the
// Friday epoch.
type Tabular struct{}

// IsLeap reports whether year has 355 days.
func (Tabular) IsLeap(year int) bool {
	return mod(14+11*year, 30) < 11
}

// NewYear returns the first day of year.
func (Tabular) NewYear(year int) RataDie {
	return IslamicEpochFriday + RataDie(int64(year-1)*354+floorDiv(int64(3+11*year), 30))
}

// YearInfo returns the months of year: odd months have 30 days, even months
// 29, and month 12 has 30 days in leap years.
func (t Tabular) YearInfo(year int) YearInfo {
	var y YearInfo
	for i := range y.MonthLengths {
		y.MonthLengths[i] = i%2 == 0
	}
	y.MonthLengths[11] = t.IsLeap(year)
	y.StartOffset = int(t.NewYear(year) - MeanNewYear(year))
	return y
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
