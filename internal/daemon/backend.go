package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/config"
)

// ErrUnknownSource is returned for a table source kind without a backend.
var ErrUnknownSource = errors.New("daemon: unknown table source")

// Backend is an opened table source together with its write side, health
// check and cleanup.
type Backend struct {
	Source blobstore.Source
	// Writer is nil for read-only sources.
	Writer blobstore.Writer
	// Check is nil when the source has nothing to ping.
	Check func(ctx context.Context) error

	closers []func() error
}

// Close releases every connection the backend opened.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenBackend connects the source selected by cfg. It returns (nil, nil) for
// config.SourceNone. When cfg mirrors into Pebble the returned Source reads
// through the mirror while Writer stays the remote one.
func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	b := &Backend{}
	switch cfg.Tables.Source {
	case config.SourceNone:
		return nil, nil
	case config.SourceFS:
		b.Source = blobstore.NewFSSource(os.DirFS(cfg.Tables.Dir))
	case config.SourceS3:
		src, err := blobstore.NewS3Source(cfg.S3)
		if err != nil {
			return nil, err
		}
		b.Source, b.Writer = src, src
	case config.SourceRedis:
		client, err := blobstore.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		src := blobstore.NewRedisSource(client, cfg.Redis.Prefix)
		b.Source, b.Writer, b.Check = src, src, src.Ping
		b.closers = append(b.closers, client.Close)
	case config.SourcePostgres:
		pool, err := blobstore.OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { pool.Close(); return nil })
		if err := blobstore.Migrate(ctx, pool, cfg.Postgres.MigrationsTable, log); err != nil {
			_ = b.Close()
			return nil, err
		}
		src := blobstore.NewPostgresSource(pool)
		b.Source, b.Writer, b.Check = src, src, src.Ping
	case config.SourcePebble:
		src, err := blobstore.OpenPebble(cfg.Tables.PebbleDir)
		if err != nil {
			return nil, err
		}
		b.Source, b.Writer = src, src
		b.closers = append(b.closers, src.Close)
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Tables.Source)
	}

	if cfg.Mirrored() {
		local, err := blobstore.OpenPebble(cfg.Tables.PebbleDir)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.closers = append(b.closers, local.Close)
		b.Source = blobstore.NewMirror(b.Source, local)
	}
	return b, nil
}
