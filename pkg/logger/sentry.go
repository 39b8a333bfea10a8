package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Flush waits up to timeout for buffered Sentry events to be delivered.
// It is a no-op when Sentry was not initialized.
//
//	err := app.Run(":8080", lingua.ShutdownHook(logger.Flush(2*time.Second)))
func Flush(timeout time.Duration) func(ctx context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
