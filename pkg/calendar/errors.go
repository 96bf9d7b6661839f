package calendar

import "errors"

var (
	ErrInvalidDate  = errors.New("calendar: invalid date")
	ErrYearNotFound = errors.New("calendar: year not covered by table")
	ErrDrift        = errors.New("calendar: new year drifts from reference")
)
