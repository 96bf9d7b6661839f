package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/i18ndata/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var level string

	root := &cobra.Command{
		Use:   "datagen",
		Short: "Build and publish locale data tables",
		Long: `datagen validates YAML locale data and turns it into versioned
zerotable blobs that i18nd can load at runtime.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	logFor := func(cmd *cobra.Command) *slog.Logger {
		return logger.New(logger.Config{Level: level, Format: "text"}, cmd.ErrOrStderr())
	}

	root.AddCommand(
		newBuildCmd(logFor),
		newInspectCmd(),
		newValidateHijriCmd(),
		newPushCmd(logFor),
		newExportCmd(logFor),
	)
	return root
}

func readInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}
