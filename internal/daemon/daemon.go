package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dmitrymomot/i18ndata/pkg/baked"
	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/config"
	"github.com/dmitrymomot/i18ndata/pkg/httpapi"
	"github.com/dmitrymomot/i18ndata/pkg/i18n"
	"github.com/dmitrymomot/i18ndata/pkg/locale"
	"github.com/dmitrymomot/i18ndata/pkg/logger"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
)

// ErrUnknownKey is returned when a configured table key has no baked spec.
var ErrUnknownKey = errors.New("daemon: unknown table key")

const defaultFetchTimeout = 30 * time.Second

// Build assembles the daemon from cfg: baked tables, the optional loadable
// table store with its refresher, the translator and the HTTP API. Loadable
// tables replace the baked table registered under the same key.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	keys, err := overrideKeys(cfg.Tables.Keys)
	if err != nil {
		return nil, err
	}

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("daemon: open table source: %w", err)
	}

	var (
		loaderOpts []provider.Option
		apiOpts    = []httpapi.Option{httpapi.WithLogger(log)}
		appOpts    = []Option{WithLogger(log), WithServer(cfg.HTTP)}
		store      *blobstore.Store
		names      []string
	)
	if cfg.HTTP.CheckTimeout > 0 {
		apiOpts = append(apiOpts, httpapi.WithCheckTimeout(cfg.HTTP.CheckTimeout))
	}
	fetchTimeout := cfg.Tables.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	if backend != nil {
		appOpts = append(appOpts, WithShutdownHook(func(context.Context) error { return backend.Close() }))
		if backend.Check != nil {
			apiOpts = append(apiOpts, httpapi.WithCheck("table_source", backend.Check))
		}

		store, err = blobstore.New(backend.Source,
			blobstore.WithLogger(log),
			blobstore.WithFetchTimeout(fetchTimeout),
		)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}

		for _, key := range keys {
			name := blobstore.TableName(key)
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			err := store.Load(fetchCtx, name)
			cancel()
			if err != nil {
				_ = backend.Close()
				return nil, fmt.Errorf("daemon: load %s: %w", name, err)
			}
			names = append(names, name)
			loaderOpts = append(loaderOpts, store.WithTable(key, name))
		}
		apiOpts = append(apiOpts, httpapi.WithStore(store))

		refresher, err := blobstore.NewRefresher(store, cfg.Tables.RefreshSpec, names, fetchTimeout)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		appOpts = append(appOpts,
			WithStartHook(func(context.Context) error { refresher.Start(); return nil }),
			WithShutdownHook(refresher.Stop),
		)
	}

	tables, err := baked.Tables()
	if err != nil {
		return nil, closeOnErr(backend, err)
	}
	for _, t := range tables {
		if slices.Contains(keys, t.Key) {
			continue
		}
		loaderOpts = append(loaderOpts, provider.WithTable(t.Key, t.Table, t.Version))
	}
	loaderOpts = append(loaderOpts, provider.WithLogger(log))

	loader, err := provider.NewLoader(loaderOpts...)
	if err != nil {
		return nil, closeOnErr(backend, err)
	}

	translator, err := i18n.New(loader, baked.MessagesKey,
		i18n.WithLogger(log),
		i18n.WithMissingKeyHandler(func(id locale.ID, key string) {
			log.Debug("missing message", slog.String("locale", id.String()), slog.String("key", key))
		}),
	)
	if err != nil {
		return nil, closeOnErr(backend, err)
	}
	apiOpts = append(apiOpts, httpapi.WithTranslator(translator))
	if len(cfg.HTTP.CORSOrigins) > 0 {
		apiOpts = append(apiOpts, httpapi.WithCORS(cfg.HTTP.CORSOrigins...))
	}

	api, err := httpapi.New(loader, apiOpts...)
	if err != nil {
		return nil, closeOnErr(backend, err)
	}

	appOpts = append(appOpts, WithShutdownHook(func(context.Context) error {
		logger.Flush(2 * time.Second)
		return nil
	}))
	return New(api, append(appOpts, opts...)...), nil
}

// overrideKeys maps configured key paths to the baked keys they replace.
func overrideKeys(paths []string) ([]provider.DataKey, error) {
	keys := make([]provider.DataKey, 0, len(paths))
	for _, p := range paths {
		i := slices.IndexFunc(baked.Specs, func(s baked.Spec) bool { return s.Key.Path() == p })
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, p)
		}
		if slices.Contains(keys, baked.Specs[i].Key) {
			continue
		}
		keys = append(keys, baked.Specs[i].Key)
	}
	return keys, nil
}

func closeOnErr(b *Backend, err error) error {
	if b != nil {
		return errors.Join(err, b.Close())
	}
	return err
}
