// Package subscribers consumes production events in the worker process.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/shopfloor/pkg/logger"
	domainevents "github.com/ghuser/shopfloor/services/production/domain/events"
	"github.com/ghuser/shopfloor/services/production/domain/models"
)

// Broadcaster is satisfied by *realtime.Publisher.
type Broadcaster interface {
	Publish(ctx context.Context, typ string, v any) error
}

// Archiver is satisfied by *storage.Archive.
type Archiver interface {
	PutJSON(ctx context.Context, key string, v any) error
}

// StateReader loads the full state for archiving.
type StateReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionState, error)
}

// Relay forwards events to terminals and archives completed runs. Archive and
// States may be nil.
type Relay struct {
	Realtime Broadcaster
	Archive  Archiver
	States   StateReader
	Log      logger.Logger
}

// ArchivedRun is the document stored for a completed production run.
type ArchivedRun struct {
	StateID          uuid.UUID         `json:"state_id"`
	OrderID          string            `json:"order_id"`
	ProductCode      string            `json:"product_code"`
	ProductName      string            `json:"product_name"`
	TargetQuantity   int               `json:"target_quantity"`
	ProducedQuantity int               `json:"produced_quantity"`
	StartTime        time.Time         `json:"start_time"`
	CompletedAt      *time.Time        `json:"completed_at"`
	OperatorID       string            `json:"operator_id"`
	OperatorName     string            `json:"operator_name"`
	History          []ArchivedConfirm `json:"history,omitempty"`
}

// ArchivedConfirm is one history entry of an archived run.
type ArchivedConfirm struct {
	Barcode    string    `json:"barcode"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
	OperatorID string    `json:"operator_id"`
}

// ArchiveKey is the object key of a completed run, partitioned by day.
func ArchiveKey(evt domainevents.ProductionStateChangedEvent) string {
	day := evt.OccurredAt
	if evt.CompletedAt != nil {
		day = *evt.CompletedAt
	}
	return fmt.Sprintf("production/completed/%s/%s.json", day.UTC().Format("2006/01/02"), evt.StateID)
}

// HandleStateChanged broadcasts every transition and archives completions.
// Safe to retry: the broadcast is advisory and the archive write overwrites.
func (r *Relay) HandleStateChanged(ctx context.Context, msg *message.Message) error {
	var evt domainevents.ProductionStateChangedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		// poison message; retrying will not help
		r.Log.ErrorContext(ctx, "production: undecodable state event", "message_id", msg.UUID, "error", err)
		return nil
	}

	r.broadcast(ctx, domainevents.TopicStateChanged, evt)

	if evt.Transition != domainevents.TransitionCompleted || r.Archive == nil {
		return nil
	}
	run := r.archivedRun(ctx, evt)
	if err := r.Archive.PutJSON(ctx, ArchiveKey(evt), run); err != nil {
		return fmt.Errorf("archive state %s: %w", evt.StateID, err)
	}
	r.Log.InfoContext(ctx, "production run archived", "state_id", evt.StateID, "key", ArchiveKey(evt))
	return nil
}

// HandleNotification broadcasts operator notifications.
func (r *Relay) HandleNotification(ctx context.Context, msg *message.Message) error {
	var evt domainevents.NotificationEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		r.Log.ErrorContext(ctx, "production: undecodable notification", "message_id", msg.UUID, "error", err)
		return nil
	}
	r.broadcast(ctx, domainevents.TopicNotification, evt)
	return nil
}

// Forward broadcasts the raw payload of any topic under typ.
func (r *Relay) Forward(typ string) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		if !json.Valid(msg.Payload) {
			r.Log.ErrorContext(ctx, "relay: payload is not json", "type", typ, "message_id", msg.UUID)
			return nil
		}
		r.broadcast(ctx, typ, json.RawMessage(msg.Payload))
		return nil
	}
}

func (r *Relay) broadcast(ctx context.Context, typ string, v any) {
	if r.Realtime == nil {
		return
	}
	if err := r.Realtime.Publish(ctx, typ, v); err != nil {
		r.Log.WarnContext(ctx, "relay: realtime publish failed", "type", typ, "error", err)
	}
}

// archivedRun prefers the stored state so the archive carries history; the
// event snapshot is the fallback.
func (r *Relay) archivedRun(ctx context.Context, evt domainevents.ProductionStateChangedEvent) ArchivedRun {
	run := ArchivedRun{
		StateID:          evt.StateID,
		OrderID:          evt.OrderID,
		ProductCode:      evt.ProductCode,
		ProductName:      evt.ProductName,
		TargetQuantity:   evt.TargetQuantity,
		ProducedQuantity: evt.ProducedQuantity,
		CompletedAt:      evt.CompletedAt,
		OperatorID:       evt.OperatorID,
		OperatorName:     evt.OperatorName,
	}
	if r.States == nil {
		return run
	}
	s, err := r.States.GetByID(ctx, evt.StateID)
	if err != nil {
		r.Log.WarnContext(ctx, "relay: archiving event snapshot only", "state_id", evt.StateID, "error", err)
		return run
	}
	run.StartTime = s.StartTime
	run.History = make([]ArchivedConfirm, len(s.History))
	for i, h := range s.History {
		run.History[i] = ArchivedConfirm{
			Barcode:    h.Barcode,
			Quantity:   h.Quantity,
			Timestamp:  h.Timestamp,
			OperatorID: h.Operator.ID,
		}
	}
	return run
}
