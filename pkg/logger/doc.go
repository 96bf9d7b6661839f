// Package logger builds the structured slog loggers used by the daemon and
// the data tooling.
//
// Records are written as JSON (or text for local runs) and enriched from the
// context on every call: the request id set by the HTTP layer, the requested
// locale and the data key being resolved. When a Sentry DSN is configured,
// warnings and errors are also forwarded to Sentry; without one the logger
// writes to its output only.
//
//	log := logger.New(logger.Config{Level: "debug"}, os.Stderr, logger.DefaultExtractors()...)
//	ctx = logger.WithRequestID(ctx, "3f1c...")
//	ctx = logger.WithLocale(ctx, "en-GB")
//	log.InfoContext(ctx, "payload resolved", slog.String("resolved", "en"))
//	// {"level":"INFO","msg":"payload resolved","resolved":"en","request_id":"3f1c...","locale":"en-GB"}
//
// Libraries take a *slog.Logger through options and default to NewNope.
package logger
