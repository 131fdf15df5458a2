package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the production tracker.
const (
	TopicStateChanged = "production.state_changed"
	TopicNotification = "production.notification"
)

// Transition names carried on ProductionStateChangedEvent.
const (
	TransitionStarted   = "started"
	TransitionConfirmed = "confirmed"
	TransitionSaved     = "saved"
	TransitionCompleted = "completed"
	TransitionCancelled = "cancelled"
)

// Notification types understood by the relay.
const (
	NotificationSuccess = "success"
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// ProductionStateChangedEvent is published after a transition has been persisted.
type ProductionStateChangedEvent struct {
	EventID          uuid.UUID  `json:"event_id"` // Unique publish-time identifier for deduplication
	Version          int        `json:"version"`  // Schema version; increment on breaking changes
	Transition       string     `json:"transition"`
	StateID          uuid.UUID  `json:"state_id"`
	OrderID          string     `json:"order_id"`
	ProductCode      string     `json:"product_code"`
	ProductName      string     `json:"product_name"`
	TargetQuantity   int        `json:"target_quantity"`
	ProducedQuantity int        `json:"produced_quantity"`
	IsActive         bool       `json:"is_active"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	OperatorID       string     `json:"operator_id"`
	OperatorName     string     `json:"operator_name"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

// NotificationEvent is a short operator-facing message for the relay.
type NotificationEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Title      string    `json:"title"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
