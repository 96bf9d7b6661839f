package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/i18ndata/pkg/config"
)

const defaultMaxHeaderBytes = 1 << 20

// Hook runs during startup or shutdown.
type Hook func(ctx context.Context) error

// App owns the HTTP server and the lifecycle of the background parts around
// it. It is immutable once built.
type App struct {
	baseCtx context.Context
	logger  *slog.Logger

	server   *http.Server
	mu       sync.Mutex
	listener net.Listener

	startHooks      []Hook
	shutdownHooks   []Hook
	shutdownTimeout time.Duration
	done            chan struct{}
	stopOnce        sync.Once
}

// Option configures an App.
type Option func(*App)

// WithContext sets the parent of the signal context. Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.baseCtx = ctx
		}
	}
}

// WithLogger sets the lifecycle logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithServer applies listener address and timeouts.
func WithServer(cfg config.Server) Option {
	return func(a *App) {
		if cfg.Addr != "" {
			a.server.Addr = cfg.Addr
		}
		if cfg.ReadTimeout > 0 {
			a.server.ReadTimeout = cfg.ReadTimeout
		}
		if cfg.WriteTimeout > 0 {
			a.server.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			a.server.IdleTimeout = cfg.IdleTimeout
		}
		if cfg.ReadHeaderTimeout > 0 {
			a.server.ReadHeaderTimeout = cfg.ReadHeaderTimeout
		}
		if cfg.ShutdownTimeout > 0 {
			a.shutdownTimeout = cfg.ShutdownTimeout
		}
	}
}

// WithAddress overrides the listener address.
func WithAddress(addr string) Option {
	return func(a *App) {
		if addr != "" {
			a.server.Addr = addr
		}
	}
}

// WithStartHook runs fn after the listener is bound and before serving.
func WithStartHook(fn Hook) Option {
	return func(a *App) {
		if fn != nil {
			a.startHooks = append(a.startHooks, fn)
		}
	}
}

// WithShutdownHook runs fn after the server stopped accepting requests.
// Hooks run in reverse registration order.
func WithShutdownHook(fn Hook) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}

// New returns an App serving h.
func New(h http.Handler, opts ...Option) *App {
	a := &App{
		baseCtx:         context.Background(),
		logger:          slog.New(slog.DiscardHandler),
		shutdownTimeout: 30 * time.Second,
		done:            make(chan struct{}),
		server: &http.Server{
			Addr:              ":8080",
			Handler:           h,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Addr returns the bound address, or "" before Run has listened.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Run serves until SIGINT, SIGTERM, Stop or a server failure, then shuts
// down gracefully. It returns nil on a clean shutdown.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(a.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	for _, hook := range a.startHooks {
		if err := hook(ctx); err != nil {
			_ = ln.Close()
			return errors.Join(err, a.shutdown())
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(err, a.shutdown())
		}
	case <-ctx.Done():
	case <-a.done:
	}
	return a.shutdown()
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for i := len(a.shutdownHooks) - 1; i >= 0; i-- {
		if err := a.shutdownHooks[i](ctx); err != nil {
			errs = append(errs, err)
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		a.logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}
	a.logger.Info("shutdown completed")
	return nil
}

// Stop triggers a graceful shutdown. It is safe to call more than once.
func (a *App) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
}
