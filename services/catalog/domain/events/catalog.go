package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicUnitCostRefreshed is the Watermill topic published when a product's
// unit cost is overwritten by a BOM recomputation.
const TopicUnitCostRefreshed = "catalog.unit_cost_refreshed"

// UnitCostRefreshedEvent is published after SetUnitCost commits.
type UnitCostRefreshedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	Version      int       `json:"version"`
	ProductID    int64     `json:"product_id"`
	ProductKind  string    `json:"product_kind"`
	PreviousCost float64   `json:"previous_cost"`
	UnitCost     float64   `json:"unit_cost"`
	OccurredAt   time.Time `json:"occurred_at"`
}
