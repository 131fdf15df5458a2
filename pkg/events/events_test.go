package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

func quietLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

var fastRetry = RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}

func TestRetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int
		wantCalls int
		wantErr   bool
	}{
		{"succeeds first time", 0, 1, false},
		{"succeeds on last attempt", 2, 3, false},
		{"gives up", 10, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			h := func(context.Context, *message.Message) error {
				calls++
				if calls <= tt.failFirst {
					return errors.New("relay unavailable")
				}
				return nil
			}
			err := fastRetry.run(context.Background(), message.NewMessage("m", nil), h, quietLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	h := func(context.Context, *message.Message) error {
		calls++
		return errors.New("down")
	}
	slow := RetryPolicy{Attempts: 5, BaseDelay: time.Hour}
	if err := slow.run(ctx, message.NewMessage("m", nil), h, quietLogger()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNewJSONMessage(t *testing.T) {
	id := uuid.New()
	payload := map[string]any{"order_id": "ORD-1", "produced_quantity": 7}

	msg, err := NewJSONMessage(id, 2, payload)
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if got := msg.Metadata.Get(MetaEventID); got != id.String() {
		t.Errorf("event_id = %q, want %q", got, id)
	}
	if got := msg.Metadata.Get(MetaEventVersion); got != "2" {
		t.Errorf("event_version = %q, want 2", got)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["order_id"] != "ORD-1" {
		t.Errorf("order_id = %v", decoded["order_id"])
	}
}

func TestNewJSONMessage_Unmarshalable(t *testing.T) {
	if _, err := NewJSONMessage(uuid.New(), 1, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestRunOutbox_RequiresOutboxMode(t *testing.T) {
	b := &Bus{opts: Options{Outbox: false}, log: quietLogger()}
	if err := b.RunOutbox(context.Background()); !errors.Is(err, errNoOutbox) {
		t.Fatalf("err = %v, want errNoOutbox", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgres://x", ServiceName: "shopfloor"}
	api := OptionsFromConfig(cfg, true)
	if !api.Outbox || api.ConsumerGroup != "shopfloor-consumer" || api.Retry != DefaultRetryPolicy {
		t.Errorf("api options = %+v", api)
	}
	if OptionsFromConfig(cfg, false).Outbox {
		t.Error("worker options should not use the outbox")
	}
}

func TestTracePropagation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "confirm unit")
	defer span.End()

	msg := message.NewMessage("m", nil)
	injectTrace(ctx, msg)
	got := trace.SpanFromContext(extractTrace(context.Background(), msg)).SpanContext()

	if !got.IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Errorf("trace id = %s, want %s", got.TraceID(), span.SpanContext().TraceID())
	}
}
