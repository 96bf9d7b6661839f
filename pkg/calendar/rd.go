package calendar

import "time"

// RataDie counts days with day 1 being January 1 of year 1 in the proleptic
// Gregorian calendar.
type RataDie int64

// unixEpoch is the RataDie of 1970-01-01.
const unixEpoch RataDie = 719163

// FixedFromGregorian returns the RataDie of a proleptic Gregorian date.
func FixedFromGregorian(year int, month time.Month, day int) RataDie {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return unixEpoch + RataDie(floorDiv(t.Unix(), 86400))
}

// FixedFromTime returns the RataDie of the UTC calendar day of t.
func FixedFromTime(t time.Time) RataDie {
	y, m, d := t.UTC().Date()
	return FixedFromGregorian(y, m, d)
}

// Time returns midnight UTC of the day.
func (rd RataDie) Time() time.Time {
	return time.Unix(int64(rd-unixEpoch)*86400, 0).UTC()
}

// Gregorian returns the proleptic Gregorian date of the day.
func (rd RataDie) Gregorian() (year int, month time.Month, day int) {
	return rd.Time().Date()
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
