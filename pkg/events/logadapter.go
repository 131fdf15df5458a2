package events

import (
	"github.com/ThreeDotsLabs/watermill"

	"github.com/ghuser/shopfloor/pkg/logger"
)

// watermillLogger routes Watermill's internal logs into the service logger.
// Watermill's trace level is folded into debug.
type watermillLogger struct{ log logger.Logger }

func newWatermillLogger(log logger.Logger) *watermillLogger {
	return &watermillLogger{log: log.With("component", "watermill")}
}

func (w *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.log.Error(msg, append(args(fields), "error", err)...)
}

func (w *watermillLogger) Info(msg string, fields watermill.LogFields) {
	w.log.Info(msg, args(fields)...)
}

func (w *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, args(fields)...)
}

func (w *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.log.Debug(msg, args(fields)...)
}

func (w *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: w.log.With(args(fields)...)}
}

func args(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
