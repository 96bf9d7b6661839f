package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/i18ndata/pkg/baked"
)

func newBuildCmd(logFor func(*cobra.Command) *slog.Logger) *cobra.Command {
	var kind, in, out string

	kinds := make([]string, 0, len(baked.Kinds()))
	for _, k := range baked.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate a YAML source and write the table blob",
		Long: `Validate a YAML source and write the table blob.

Example:
  datagen build --kind messages --in messages.yaml --out messages/app@1.ztbl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := readInput(in)
			if err != nil {
				return err
			}
			defer f.Close()

			blob, err := baked.Build(baked.Kind(kind), f)
			if err != nil {
				return fmt.Errorf("build %s: %w", in, err)
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, blob.Data, 0o644); err != nil {
				return err
			}
			logFor(cmd).Info("table written",
				slog.String("kind", kind),
				slog.String("out", out),
				slog.String("version", blob.Version),
				slog.Int("bytes", len(blob.Data)),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "data kind: "+strings.Join(kinds, ", "))
	cmd.Flags().StringVar(&in, "in", "-", "YAML source file, - for stdin")
	cmd.Flags().StringVar(&out, "out", "", "output table file")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
