package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/i18ndata/pkg/baked"
	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/calendar"
	"github.com/dmitrymomot/i18ndata/pkg/i18n"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// Envelope is the body of every data response.
type Envelope struct {
	Data      any    `json:"data"`
	Requested string `json:"requested"`
	Locale    string `json:"locale"`
	Version   string `json:"version"`
	Ownership string `json:"ownership"`
}

// request resolves the locale of r for key: the locale query parameter wins,
// then Accept-Language, then und. fallback=false asks for the exact locale.
// The returned http.Request carries the locale and data key for logging.
func (s *Server) request(r *http.Request, key provider.DataKey) (provider.Request, *http.Request, error) {
	q := r.URL.Query()

	id := locale.Und
	if raw := q.Get("locale"); raw != "" {
		parsed, err := locale.Parse(raw)
		if err != nil {
			return provider.Request{}, r, errBadRequest("invalid_locale", fmt.Sprintf("invalid locale %q", raw), err)
		}
		id = parsed
	} else if header := r.Header.Get("Accept-Language"); header != "" {
		id = i18n.Negotiate(header, s.loader, key)
	}

	req := provider.NewRequest(key, id)
	if v := q.Get("fallback"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return provider.Request{}, r, errBadRequest("invalid_fallback", "fallback must be a boolean", err)
		}
		req.AllowFallback = allow
	}

	ctx := logger.WithDataKey(logger.WithLocale(r.Context(), id.String()), key.Path())
	return req, r.WithContext(ctx), nil
}

// respond writes the envelope of a resolved payload.
func respond[T any](s *Server, w http.ResponseWriter, r *http.Request, req provider.Request, resp *provider.Response[T], data any) {
	s.logger.DebugContext(r.Context(), "payload resolved",
		slog.String("resolved", resp.Metadata.Locale.String()),
		slog.Bool("fallback", req.AllowFallback),
	)
	writeJSON(w, http.StatusOK, Envelope{
		Data:      data,
		Requested: req.Locale.String(),
		Locale:    resp.Metadata.Locale.String(),
		Version:   resp.Metadata.Version,
		Ownership: resp.Payload.Ownership().String(),
	})
}

func (s *Server) greeting(w http.ResponseWriter, r *http.Request) error {
	req, r, err := s.request(r, baked.GreetingKey)
	if err != nil {
		return err
	}
	resp, err := provider.Load(s.loader, req, baked.DecodeGreeting)
	if err != nil {
		return err
	}
	defer resp.Release()

	respond(s, w, r, req, resp, resp.Payload.Get())
	return nil
}

func (s *Server) months(w http.ResponseWriter, r *http.Request) error {
	req, r, err := s.request(r, baked.MonthNamesKey)
	if err != nil {
		return err
	}
	resp, err := provider.Load(s.loader, req, baked.DecodeMonthNames)
	if err != nil {
		return err
	}
	defer resp.Release()

	respond(s, w, r, req, resp, resp.Payload.Get().All())
	return nil
}

type weekBody struct {
	FirstDay string `json:"first_day"`
	MinDays  uint8  `json:"min_days"`
}

func (s *Server) week(w http.ResponseWriter, r *http.Request) error {
	req, r, err := s.request(r, baked.WeekDataKey)
	if err != nil {
		return err
	}
	resp, err := provider.Load(s.loader, req, baked.DecodeWeekData)
	if err != nil {
		return err
	}
	defer resp.Release()

	wd := resp.Payload.Get()
	body := weekBody{FirstDay: strings.ToLower(wd.FirstDay.String()), MinDays: wd.MinDays}
	respond(s, w, r, req, resp, body)
	return nil
}

type hijriYearBody struct {
	Year         int    `json:"year"`
	NewYear      string `json:"new_year"`
	Days         int    `json:"days"`
	MonthLengths []int  `json:"month_lengths"`
	StartOffset  int    `json:"start_offset"`
	Packed       string `json:"packed,omitempty"`
	Observed     bool   `json:"observed"`
}

func (s *Server) hijriCalendar() (provider.Request, *provider.Response[calendar.YearTable], error) {
	req := provider.NewRequest(baked.HijriUmmAlQuraKey, locale.Und)
	resp, err := provider.Load(s.loader, req, baked.DecodeHijri)
	return req, resp, err
}

func (s *Server) hijriYear(w http.ResponseWriter, r *http.Request) error {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		return errBadRequest("invalid_year", "year must be between 1 and 9999", err)
	}

	req, resp, err := s.hijriCalendar()
	if err != nil {
		return err
	}
	defer resp.Release()

	info, observed := calendar.NewUmmAlQura(resp.Payload.Get()).YearInfo(year)
	body := hijriYearBody{
		Year:         year,
		NewYear:      info.NewYear(year).Time().Format(time.DateOnly),
		Days:         info.DaysInYear(),
		MonthLengths: make([]int, 12),
		StartOffset:  info.StartOffset,
		Observed:     observed,
	}
	for m := range 12 {
		body.MonthLengths[m] = info.DaysInMonth(m + 1)
	}
	if observed {
		body.Packed = fmt.Sprintf("0x%04X", uint16(info.Pack()))
	}
	respond(s, w, r, req, resp, body)
	return nil
}

type hijriDateBody struct {
	Gregorian string `json:"gregorian"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Formatted string `json:"formatted"`
}

func (s *Server) hijriDate(w http.ResponseWriter, r *http.Request) error {
	t, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		return errBadRequest("invalid_date", "date must be YYYY-MM-DD", err)
	}

	req, resp, err := s.hijriCalendar()
	if err != nil {
		return err
	}
	defer resp.Release()

	d := calendar.NewUmmAlQura(resp.Payload.Get()).FromFixed(calendar.FixedFromTime(t))
	body := hijriDateBody{
		Gregorian: t.Format(time.DateOnly),
		Year:      d.Year,
		Month:     d.Month,
		Day:       d.Day,
		Formatted: d.String(),
	}
	respond(s, w, r, req, resp, body)
	return nil
}

type messageBody struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func (s *Server) message(w http.ResponseWriter, r *http.Request) error {
	key := chi.URLParam(r, "key")
	req, r, err := s.request(r, baked.MessagesKey)
	if err != nil {
		return err
	}

	msg, from, ok := s.translator.Lookup(req.Locale, key)
	if !ok {
		return errNotFound("missing_message", fmt.Sprintf("no message %q for %s", key, req.Locale), nil)
	}

	values := i18n.M{}
	for name, v := range r.URL.Query() {
		if name != "locale" && name != "fallback" && len(v) > 0 {
			values[name] = v[0]
		}
	}
	writeJSON(w, http.StatusOK, Envelope{
		Data:      messageBody{Key: key, Message: i18n.ReplacePlaceholders(msg, values)},
		Requested: req.Locale.String(),
		Locale:    from.String(),
		Ownership: provider.Owned.String(),
	})
	return nil
}

func (s *Server) tables(w http.ResponseWriter, _ *http.Request) error {
	infos := s.store.Tables()
	if infos == nil {
		infos = []blobstore.Info{}
	}
	writeJSON(w, http.StatusOK, struct {
		Tables []blobstore.Info `json:"tables"`
	}{infos})
	return nil
}
