package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/i18n"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// Server exposes locale data over HTTP.
type Server struct {
	loader       *provider.Loader
	translator   *i18n.Translator
	store        *blobstore.Store
	logger       *slog.Logger
	checks       Checks
	checkTimeout time.Duration
	corsOrigins  []string
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger for access logs and errors.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) error {
		if log == nil {
			return errors.New("httpapi: nil logger")
		}
		s.logger = log
		return nil
	}
}

// WithTranslator enables GET /v1/messages/{key}.
func WithTranslator(t *i18n.Translator) Option {
	return func(s *Server) error {
		s.translator = t
		return nil
	}
}

// WithStore enables GET /v1/tables and adds the store to readiness.
func WithStore(store *blobstore.Store) Option {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithCheck adds a named readiness check.
func WithCheck(name string, fn CheckFunc) Option {
	return func(s *Server) error {
		if name == "" || fn == nil {
			return errors.New("httpapi: check needs a name and a function")
		}
		s.checks[name] = fn
		return nil
	}
}

// WithCheckTimeout bounds the readiness checks. Default: 5 seconds.
func WithCheckTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return errors.New("httpapi: check timeout must be positive")
		}
		s.checkTimeout = d
		return nil
	}
}

// WithCORS allows browser requests from origins. "*" allows any origin.
func WithCORS(origins ...string) Option {
	return func(s *Server) error {
		s.corsOrigins = append(s.corsOrigins, origins...)
		return nil
	}
}

// New builds the router.
func New(loader *provider.Loader, opts ...Option) (*Server, error) {
	if loader == nil {
		return nil, errors.New("httpapi: nil loader")
	}
	s := &Server{
		loader:       loader,
		logger:       logger.NewNope(),
		checks:       Checks{},
		checkTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if s.store != nil {
		if _, ok := s.checks["tables"]; !ok {
			s.checks["tables"] = func(context.Context) error {
				if len(s.store.Names()) == 0 {
					return errors.New("no tables loaded")
				}
				return nil
			}
		}
	}

	r := chi.NewRouter()
	r.Use(requestID, s.accessLog, s.recoverer)
	if len(s.corsOrigins) > 0 {
		r.Use(cors(s.corsOrigins))
	}

	r.Get("/healthz", s.handle(s.liveness))
	r.Get("/readyz", s.handle(s.readiness))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/greeting", s.handle(s.greeting))
		r.Get("/months", s.handle(s.months))
		r.Get("/week", s.handle(s.week))
		r.Get("/calendar/hijri/{year}", s.handle(s.hijriYear))
		r.Get("/calendar/hijri/date/{date}", s.handle(s.hijriDate))
		if s.translator != nil {
			r.Get("/messages/{key}", s.handle(s.message))
		}
		if s.store != nil {
			r.Get("/tables", s.handle(s.tables))
		}
	})

	r.NotFound(s.handle(func(http.ResponseWriter, *http.Request) error {
		return errNotFound("route_not_found", "route not found", nil)
	}))
	r.MethodNotAllowed(s.handle(func(http.ResponseWriter, *http.Request) error {
		return NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	}))

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlerFunc is an HTTP handler that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	he := toHTTPError(err)
	he.RequestID = logger.RequestID(r.Context())
	if he.Code >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, he.Code, struct {
		Error *HTTPError `json:"error"`
	}{he})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
