package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/i18ndata/pkg/blobstore"
	"github.com/dmitrymomot/i18ndata/pkg/zerotable"
)

func newInspectCmd() *cobra.Command {
	var keysOnly bool

	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Print the header and keys of a table blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			t, err := zerotable.Load(data)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if !keysOnly {
				fmt.Fprintf(w, "wire version\t%d\n", t.Version())
				fmt.Fprintf(w, "entries\t%d\n", t.Len())
				fmt.Fprintf(w, "reverse order\t%t\n", t.Reverse())
				fmt.Fprintf(w, "fixed width\t%d\n", t.FixedWidth())
				fmt.Fprintf(w, "checksum\t%s\n", blobstore.Checksum(data))
				fmt.Fprintln(w)
			}
			for k, v := range t.All() {
				fmt.Fprintf(w, "%s\t%d bytes\n", k, len(v))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&keysOnly, "keys", false, "print only the keys")
	return cmd
}
