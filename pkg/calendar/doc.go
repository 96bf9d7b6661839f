// Package calendar stores Hijri (Umm al-Qura) year data as packed 16-bit
// records and converts dates with it.
//
// A year is described by the lengths of its twelve months and by the day its
// first month starts. The start is stored as a small signed offset from the
// mean tabular new year, so each year fits in one little-endian uint16:
//
//	bits 0-11   month length flags, bit i is month i+1, 1 = 30 days, 0 = 29 days
//	bit  12     offset sign, 1 = negative
//	bits 13-15  offset magnitude in days
//
// YearCodec implements packed.Codec for this record. Decode never fails;
// Validate additionally requires a 354 or 355 day year and a canonical offset.
//
// A YearTable is a run of consecutive packed years starting at a given Hijri
// year. ValidateYearTable checks every record and that each year ends where the
// next one starts. Tabular is the arithmetic Hijri calendar used as the
// reference when cross-checking tables and for years outside a table.
package calendar
