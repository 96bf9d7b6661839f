package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher reloads tables on a cron schedule.
type Refresher struct {
	store   *Store
	names   []string
	timeout time.Duration
	logger  *slog.Logger
	cron    *cron.Cron

	mu   sync.Mutex
	last map[string]error
}

// NewRefresher schedules a reload of names on spec, a standard five field
// cron expression ("*/5 * * * *") or a descriptor such as "@every 1m".
func NewRefresher(store *Store, spec string, names []string, timeout time.Duration) (*Refresher, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: cron schedule %q: %w", ErrInvalidConfig, spec, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := &Refresher{
		store:   store,
		names:   append([]string(nil), names...),
		timeout: timeout,
		logger:  store.logger,
		cron:    cron.New(cron.WithParser(parser)),
		last:    make(map[string]error, len(names)),
	}
	r.cron.Schedule(sched, cron.FuncJob(func() { r.RefreshAll(context.Background()) }))
	return r, nil
}

// Start runs the schedule in the background.
func (r *Refresher) Start() { r.cron.Start() }

// Stop halts the schedule and waits for a running refresh or ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshAll reloads every table once and returns the joined failures.
// A failed reload keeps the previous generation in service.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, name := range r.names {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		changed, err := r.store.Reload(rctx, name)
		cancel()

		r.mu.Lock()
		r.last[name] = err
		r.mu.Unlock()

		if err != nil {
			r.logger.ErrorContext(ctx, "table refresh failed", slog.String("table", name), slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		if changed {
			r.logger.InfoContext(ctx, "table refreshed", slog.String("table", name))
		}
	}
	return errors.Join(errs...)
}

// LastError returns the outcome of the most recent refresh of name.
func (r *Refresher) LastError(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last[name]
}
