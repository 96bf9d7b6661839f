package baked

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/i18ndata/pkg/calendar"
	"github.com/dmitrymomot/i18ndata/pkg/fallback"
	"github.com/dmitrymomot/i18ndata/pkg/packed"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

var (
	GreetingKey       = provider.MustKey("messages/greeting@1")
	MessagesKey       = provider.MustKey("messages/app@1")
	MonthNamesKey     = provider.MustKey("datetime/gregorian_months@1")
	WeekDataKey       = provider.MustKey("datetime/week_data@1", provider.WithFallback(fallback.Config{Priority: fallback.PriorityRegion}))
	HijriUmmAlQuraKey = provider.MustKey("calendar/hijri_umalqura@1", provider.Singleton())
)

// DecodeGreeting returns the greeting as a view over table bytes.
func DecodeGreeting(b []byte) (string, error) {
	return zerotable.String(b), nil
}

// MonthNames are the twelve month names of a locale.
type MonthNames struct {
	list zerotable.StringList
}

// DecodeMonthNames checks the list layout and returns a view over b.
func DecodeMonthNames(b []byte) (MonthNames, error) {
	l, err := zerotable.ParseStringList(b)
	if err != nil {
		return MonthNames{}, err
	}
	if l.Len() != 12 {
		return MonthNames{}, fmt.Errorf("baked: month names have %d entries", l.Len())
	}
	return MonthNames{list: l}, nil
}

// Name returns the name of month.
func (m MonthNames) Name(month time.Month) string {
	if m.list.Len() == 0 {
		return ""
	}
	return m.list.Get(int(month) - 1)
}

// All returns a copy of every name.
func (m MonthNames) All() []string {
	return m.list.Strings()
}

// WeekData holds the week conventions of a region.
type WeekData struct {
	FirstDay time.Weekday
	MinDays  uint8
}

// WeekCodec stores WeekData as two bytes: first day (0 = Sunday) and minimal days.
type WeekCodec struct{}

var _ packed.Codec[WeekData] = WeekCodec{}

func (WeekCodec) Size() int { return 2 }

func (WeekCodec) Encode(w WeekData) ([]byte, error) {
	if w.FirstDay < time.Sunday || w.FirstDay > time.Saturday {
		return nil, packed.ErrOutOfRange
	}
	return []byte{byte(w.FirstDay), w.MinDays}, nil
}

func (WeekCodec) Decode(b []byte) WeekData {
	return WeekData{FirstDay: time.Weekday(b[0]), MinDays: b[1]}
}

func (c WeekCodec) Validate(b []byte) (WeekData, error) {
	if len(b) != 2 {
		return WeekData{}, &packed.MalformedError{Record: "week data", Reason: "record must be 2 bytes", Err: packed.ErrShortRecord}
	}
	w := c.Decode(b)
	if w.FirstDay > time.Saturday {
		return WeekData{}, packed.Malformed("week data", "first day %d", b[0])
	}
	if w.MinDays < 1 || w.MinDays > 7 {
		return WeekData{}, packed.Malformed("week data", "minimal days %d", w.MinDays)
	}
	return w, nil
}

// DecodeWeekData decodes a record from a fixed-width table.
func DecodeWeekData(b []byte) (WeekData, error) {
	if len(b) != 2 {
		return WeekData{}, packed.ErrShortRecord
	}
	return WeekCodec{}.Decode(b), nil
}

// DecodeHijri returns the Umm al-Qura year table as a view over b.
func DecodeHijri(b []byte) (calendar.YearTable, error) {
	return calendar.DecodeYearTable(b)
}
