// Package logger builds the application's slog logger.
//
// [New] writes JSON (or text) records to stdout at the configured level and
// wraps the handler in a [LogHandlerDecorator], which adds request-scoped
// attributes produced by [ContextExtractor] functions:
//
//	log := logger.New(cfg.Log,
//		logger.Language(),
//		logger.FromContextValue("request_id", requestIDKey{}),
//	)
//
//	ctx = i18n.WithLanguage(ctx, "ru")
//	log.InfoContext(ctx, "translations loaded")
//	// {"level":"INFO","msg":"translations loaded","lang":"ru"}
//
// When SENTRY_DSN is set, warnings and errors are also sent to Sentry;
// errors create issues. A Sentry initialization failure falls back to stdout
// only. Register [Flush] as a shutdown hook to deliver buffered events.
//
// [NewNope] returns a logger that discards everything.
package logger
