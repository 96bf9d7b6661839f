package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/i18ndata/pkg/baked"
	"github.com/dmitrymomot/i18ndata/pkg/calendar"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

func newValidateHijriCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-hijri <source.yaml>",
		Short: "Check observed Hijri year data against the tabular calendar",
		Long: `Check observed Hijri year data against the tabular calendar.

Every year must pack into the year record, follow its predecessor and
start within two days of the tabular new year.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readInput(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			blob, err := baked.Build(baked.KindHijri, f)
			if err != nil {
				return fmt.Errorf("validate %s: %w", args[0], err)
			}
			raw, ok := zerotable.MustLoad(blob.Data).LookupString("und")
			if !ok {
				return fmt.Errorf("validate %s: %w", args[0], baked.ErrMissingUnd)
			}
			years, err := calendar.ValidateYearTable(raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d years (%d..%d), version %s\n",
				years.Len(), years.StartYear(), years.EndYear()-1, blob.Version)
			return nil
		},
	}
}
