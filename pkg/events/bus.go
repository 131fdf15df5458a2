// Package events carries shopfloor domain events over PostgreSQL using
// Watermill's SQL transport.
//
// The API process opens the bus in outbox mode: Publish and transactional
// publishers write to a durable forwarder queue and a background forwarder
// delivers to the real topic. The worker opens it in direct mode and consumes.
// All worker instances share one consumer group, so each event is handled once.
//
// Trace context travels in message metadata.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

const (
	outboxTopic       = "shopfloor_outbox"
	outboxGroup       = "shopfloor-outbox"
	drainTimeout      = 30 * time.Second
	defaultErrBacklog = 100
)

var errNoOutbox = errors.New("events: bus opened without outbox")

// Options configures a Bus.
type Options struct {
	DatabaseURL   string
	ConsumerGroup string
	// Outbox routes every publish through the forwarder queue.
	Outbox bool
	Retry  RetryPolicy
}

// OptionsFromConfig derives bus options for a process. The API publishes
// through the outbox; the worker does not.
func OptionsFromConfig(cfg *config.Config, outbox bool) Options {
	return Options{
		DatabaseURL:   cfg.DatabaseURL,
		ConsumerGroup: cfg.ServiceName + "-consumer",
		Outbox:        outbox,
		Retry:         DefaultRetryPolicy,
	}
}

// Bus publishes and consumes domain events.
type Bus struct {
	db         *sql.DB
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	opts       Options
	log        logger.Logger
	wg         sync.WaitGroup
}

// Open connects to the event store. Watermill creates its tables on first use.
func Open(opts Options, log logger.Logger) (*Bus, error) {
	if opts.Retry.Attempts <= 0 {
		opts.Retry = DefaultRetryPolicy
	}
	db, err := sql.Open("pgx", opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := newWatermillLogger(log)

	pub, err := newSQLPublisher(db, wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sub, err := newSQLSubscriber(db, opts.ConsumerGroup, wlog)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, err
	}

	b := &Bus{db: db, publisher: pub, subscriber: sub, opts: opts, log: log}
	if opts.Outbox {
		b.publisher = wrapOutbox(pub)
	}
	return b, nil
}

// RunOutbox starts the forwarder that moves outbox messages to their topics.
// It returns once the forwarder is running.
func (b *Bus) RunOutbox(ctx context.Context) error {
	if !b.opts.Outbox {
		return errNoOutbox
	}
	if b.fwd != nil {
		return errors.New("events: outbox already running")
	}
	wlog := newWatermillLogger(b.log)

	outboxSub, err := newSQLSubscriber(b.db, outboxGroup, wlog)
	if err != nil {
		return err
	}
	targetPub, err := newSQLPublisher(b.db, wlog)
	if err != nil {
		_ = outboxSub.Close()
		return err
	}
	fwd, err := forwarder.NewForwarder(outboxSub, targetPub, wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = targetPub.Close()
		_ = outboxSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: outbox forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: outbox forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: outbox forwarder running", "topic", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for outbox forwarder: %w", ctx.Err())
	}
}

// Ping checks the event store connection. Satisfies httpx.HealthChecker.
func (b *Bus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits for in-flight handlers, then releases the
// publisher and the connection.
func (b *Bus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		b.log.Error("events: in-flight handlers did not finish", "timeout", drainTimeout)
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return b.db.Close()
}

func newSQLPublisher(db *sql.DB, wlog *watermillLogger) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog *watermillLogger) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %s: %w", group, err)
	}
	return sub, nil
}

func wrapOutbox(pub message.Publisher) message.Publisher {
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}
