package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/i18ndata/internal/daemon"
	"github.com/dmitrymomot/i18ndata/pkg/baked"
	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/config"
	"github.com/dmitrymomot/i18ndata/pkg/provider"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

var pushTargets = []string{config.SourceS3, config.SourceRedis, config.SourcePostgres, config.SourcePebble}

func newPushCmd(logFor func(*cobra.Command) *slog.Logger) *cobra.Command {
	var target, pebbleDir string

	cmd := &cobra.Command{
		Use:   "push <data-key> <table>",
		Short: "Upload a table blob to a table source",
		Long: `Upload a table blob to a table source. The blob is validated first and
stored under the name i18nd derives from the data key.

Connection settings come from the same I18ND_ environment variables the
daemon reads (I18ND_S3_BUCKET, I18ND_REDIS_URL, I18ND_DATABASE_CONN_URL).

Example:
  datagen push --target pebble --pebble-dir ./cache messages/app@1 app.ztbl`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(pushTargets, target) {
				return fmt.Errorf("%w: %q", daemon.ErrUnknownSource, target)
			}
			key, err := provider.NewKey(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			if _, err := zerotable.Load(data); err != nil {
				return fmt.Errorf("%w: %s: %w", blobstore.ErrInvalidBlob, args[1], err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Tables.Source = target
			if pebbleDir != "" {
				cfg.Tables.PebbleDir = pebbleDir
			}

			log := logFor(cmd)
			backend, err := daemon.OpenBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer backend.Close()

			name := blobstore.TableName(key)
			if err := backend.Writer.Put(cmd.Context(), name, data); err != nil {
				return err
			}
			log.Info("table pushed",
				slog.String("target", target),
				slog.String("name", name),
				slog.String("checksum", blobstore.Checksum(data)),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", config.SourcePebble, "table source to write to: s3, redis, postgres or pebble")
	cmd.Flags().StringVar(&pebbleDir, "pebble-dir", "", "pebble directory, overrides I18ND_TABLES_PEBBLE_DIR")
	return cmd
}

func newExportCmd(logFor func(*cobra.Command) *slog.Logger) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-baked",
		Short: "Write every baked table as a blob under a directory",
		Long: `Write every baked table as a blob under a directory, laid out the way
the fs table source expects. The result is a starting point for
loadable overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := baked.Tables()
			if err != nil {
				return err
			}
			log := logFor(cmd)
			for _, t := range tables {
				path := filepath.Join(out, filepath.FromSlash(blobstore.TableName(t.Key)))
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(path, t.Table.Bytes(), 0o644); err != nil {
					return err
				}
				log.Info("table exported", slog.String("key", t.Key.Path()), slog.String("version", t.Version))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "./tables", "output directory")
	return cmd
}
