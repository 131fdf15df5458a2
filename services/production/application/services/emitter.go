package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/shopfloor/pkg/events"
	"github.com/ghuser/shopfloor/pkg/logger"
	domainevents "github.com/ghuser/shopfloor/services/production/domain/events"
	"github.com/ghuser/shopfloor/services/production/domain/models"
)

const emitTimeout = 5 * time.Second

// Publisher is satisfied by *events.Bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// Emitter sends state changes and notifications to the relay. Publishing runs
// in the background after the write has committed; failures are only logged.
type Emitter struct {
	pub     Publisher
	log     logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewEmitter returns an Emitter. A nil pub disables emission.
func NewEmitter(pub Publisher, log logger.Logger) *Emitter {
	return &Emitter{pub: pub, log: log, timeout: emitTimeout}
}

// StateChanged emits a ProductionStateChangedEvent snapshot of s.
func (e *Emitter) StateChanged(ctx context.Context, transition string, s *models.ProductionState) {
	evt := domainevents.ProductionStateChangedEvent{
		EventID:          uuid.New(),
		Version:          1,
		Transition:       transition,
		StateID:          s.ID,
		OrderID:          s.OrderID,
		ProductCode:      s.ProductCode,
		ProductName:      s.ProductName,
		TargetQuantity:   s.TargetQuantity,
		ProducedQuantity: s.ProducedQuantity,
		IsActive:         s.IsActive,
		IsCompleted:      s.IsCompleted,
		CompletedAt:      s.CompletedAt,
		OperatorID:       s.Operator.ID,
		OperatorName:     s.Operator.Name,
		OccurredAt:       time.Now().UTC(),
	}
	e.emit(ctx, domainevents.TopicStateChanged, evt.EventID, evt.Version, evt)
}

// Notify emits an operator-facing notification.
func (e *Emitter) Notify(ctx context.Context, kind, title, msg string) {
	evt := domainevents.NotificationEvent{
		EventID:    uuid.New(),
		Title:      title,
		Type:       kind,
		Message:    msg,
		OccurredAt: time.Now().UTC(),
	}
	e.emit(ctx, domainevents.TopicNotification, evt.EventID, 1, evt)
}

// Wait blocks until in-flight publishes finish.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}

func (e *Emitter) emit(ctx context.Context, topic string, id uuid.UUID, version int, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	msg, err := events.NewJSONMessage(id, version, payload)
	if err != nil {
		e.log.ErrorContext(ctx, "production: build event", "topic", topic, "error", err)
		return
	}

	// detach from the request so a finished response does not cancel delivery
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		if err := e.pub.Publish(bg, topic, msg); err != nil {
			e.log.WarnContext(bg, "production: relay delivery failed", "topic", topic, "event_id", id, "error", fmt.Errorf("publish: %w", err))
		}
	}()
}
