package events

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/shopfloor/pkg/logger"
)

// Handler consumes one message. Returning nil acks it; an error triggers a
// retry. Handlers must be idempotent.
type Handler func(context.Context, *message.Message) error

// RetryPolicy bounds redelivery of a failing message. Delay doubles after
// every attempt.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy gives a handler three attempts: 1s, then 2s apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: time.Second}

// Subscribe consumes topic in the background. Errors that survive the retry
// policy nack the message and are sent on the returned channel, which the
// caller must drain.
func (b *Bus) Subscribe(ctx context.Context, topic string, h Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, defaultErrBacklog)
	tracer := otel.Tracer("shopfloor/events")

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx, span := tracer.Start(extractTrace(ctx, msg), "consume "+topic,
				trace.WithSpanKind(trace.SpanKindConsumer),
				trace.WithAttributes(
					attribute.String("messaging.destination", topic),
					attribute.String("shopfloor.event_id", msg.Metadata.Get(MetaEventID)),
				))

			if err := b.opts.Retry.run(msgCtx, msg, h, b.log); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "handler failed")
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error backlog full", "topic", topic, "error", err)
				}
			} else {
				msg.Ack()
			}
			span.End()
		}
	}()
	return errCh, nil
}

// SubscribeAll registers every topic in handlers and logs handler failures.
// It returns the subscribed topics in sorted order.
func (b *Bus) SubscribeAll(ctx context.Context, handlers map[string]Handler) ([]string, error) {
	topics := make([]string, 0, len(handlers))
	for topic := range handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	for _, topic := range topics {
		errCh, err := b.Subscribe(ctx, topic, handlers[topic])
		if err != nil {
			return nil, err
		}
		go func(topic string) {
			for err := range errCh {
				b.log.ErrorContext(ctx, "events: message dropped after retries", "topic", topic, "error", err)
			}
		}(topic)
	}
	return topics, nil
}

func (p RetryPolicy) run(ctx context.Context, msg *message.Message, h Handler, log logger.Logger) error {
	delay := p.BaseDelay
	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err = h(ctx, msg); err == nil {
			return nil
		}
		if attempt == p.Attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed",
			"attempt", attempt,
			"attempts", p.Attempts,
			"retry_in", delay,
			"event_id", msg.Metadata.Get(MetaEventID),
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", p.Attempts, err)
}
