package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set on every domain event.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// NewJSONMessage marshals payload into a message tagged with the domain event
// id and schema version.
func NewJSONMessage(eventID uuid.UUID, version int, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %T: %w", payload, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetaEventID, eventID.String())
	msg.Metadata.Set(MetaEventVersion, strconv.Itoa(version))
	return msg, nil
}

// Publish sends msgs to topic with the trace context of ctx attached.
func (b *Bus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishInTx publishes msgs inside tx so they commit or roll back with the
// surrounding write. Schema tables already exist once the bus is open.
func (b *Bus) PublishInTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: watermillsql.DefaultPostgreSQLSchema{},
	}, newWatermillLogger(b.log))
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}
	var p message.Publisher = pub
	if b.opts.Outbox {
		p = wrapOutbox(pub)
	}
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := p.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

func injectTrace(ctx context.Context, msg *message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}
