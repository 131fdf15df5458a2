package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/shopfloor/pkg/config"
)

// SetupSentry initialises crash reporting. It does nothing without a DSN.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		ServerName:       cfg.ServiceName,
		TracesSampleRate: sampleRatio(cfg),
		BeforeSend:       scrubEvent,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	return nil
}

// scrubEvent drops the operator session cookie from captured requests.
func scrubEvent(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request == nil {
		return event
	}
	event.Request.Cookies = ""
	delete(event.Request.Headers, "Cookie")
	return event
}

// SentryFlush waits briefly for buffered events before exit.
func SentryFlush() {
	sentry.Flush(2 * time.Second)
}

// SentryMiddleware puts a hub on every request context and reports panics.
// It re-panics so logger.Recovery still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true, Timeout: 2 * time.Second}).Handle
}
