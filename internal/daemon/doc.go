// Package daemon assembles and runs the i18nd service: it opens the configured
// table source, layers loadable tables over the baked ones, and serves the
// HTTP API with graceful shutdown.
package daemon
