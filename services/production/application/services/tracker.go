package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	pkgcache "github.com/ghuser/shopfloor/pkg/cache"
	"github.com/ghuser/shopfloor/pkg/keylock"
	"github.com/ghuser/shopfloor/pkg/logger"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
	domainevents "github.com/ghuser/shopfloor/services/production/domain/events"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/domain/repositories"
	domainsvcs "github.com/ghuser/shopfloor/services/production/domain/services"
)

// DefaultDebounceWindow is used when TrackerConfig leaves the window unset.
const DefaultDebounceWindow = time.Second

// Debouncer claims a scan for a window. Claim returns false when the same key
// was claimed inside the window. Implemented by pkg/cache.
type Debouncer interface {
	Claim(ctx context.Context, key string, window time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TrackerConfig holds the tunables of the tracker.
type TrackerConfig struct {
	DebounceWindow   time.Duration
	RequireStock     bool
	AllowManualEntry bool
}

// TrackerDeps are the collaborators of the tracker. Stock, Index and Emitter
// are optional.
type TrackerDeps struct {
	Repo      repositories.ProductionRepository
	Orders    repositories.OrderReader
	Stock     repositories.StockGate
	Validator *domainsvcs.BarcodeValidator
	Debouncer Debouncer
	Index     *pkgcache.LiveIndex
	Emitter   *Emitter
}

// StartInput seeds a new production state.
type StartInput struct {
	OrderID        string
	ProductCode    string
	ProductName    string
	TargetQuantity int
}

// ConfirmInput is one scan or manual entry. Quantity 0 means 1.
type ConfirmInput struct {
	StateID  uuid.UUID
	Barcode  string
	Quantity int
}

// ConfirmResult is the state after a confirmation. Debounced is true when the
// scan repeated a recent one and nothing changed; Tier names the validator
// tier that accepted the barcode.
type ConfirmResult struct {
	State     *models.ProductionState
	Debounced bool
	Tier      string
}

// Tracker drives the production state machine. Mutations of one state are
// serialized in-process by a keyed mutex and across processes by the
// repository's version check.
type Tracker struct {
	repo      repositories.ProductionRepository
	orders    repositories.OrderReader
	stock     repositories.StockGate
	validator *domainsvcs.BarcodeValidator
	debouncer Debouncer
	index     *pkgcache.LiveIndex
	emitter   *Emitter
	locks     *keylock.Map
	cfg       TrackerConfig
	log       logger.Logger
	now       func() time.Time

	unitsConfirmed metric.Int64Counter
	scansRejected  metric.Int64Counter
	scansDebounced metric.Int64Counter
}

// NewTracker wires a Tracker. A nil Debouncer falls back to a local one and a
// nil Validator to the structural tiers only.
func NewTracker(deps TrackerDeps, cfg TrackerConfig, log logger.Logger) *Tracker {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if deps.Debouncer == nil {
		deps.Debouncer = pkgcache.NewLocalDebouncer(nil)
	}
	if deps.Validator == nil {
		deps.Validator = domainsvcs.NewDefaultBarcodeValidator(nil, nil)
	}
	t := &Tracker{
		repo:      deps.Repo,
		orders:    deps.Orders,
		stock:     deps.Stock,
		validator: deps.Validator,
		debouncer: deps.Debouncer,
		index:     deps.Index,
		emitter:   deps.Emitter,
		locks:     keylock.New(),
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
	t.initMetrics()
	return t
}

func (t *Tracker) initMetrics() {
	meter := otel.Meter("shopfloor/production")
	var err error
	if t.unitsConfirmed, err = meter.Int64Counter("production.units_confirmed",
		metric.WithDescription("Units added to production states")); err != nil {
		t.log.Warn("production: metric unavailable", "name", "production.units_confirmed", "error", err)
	}
	if t.scansRejected, err = meter.Int64Counter("production.scans_rejected",
		metric.WithDescription("Scans refused by the barcode validator")); err != nil {
		t.log.Warn("production: metric unavailable", "name", "production.scans_rejected", "error", err)
	}
	if t.scansDebounced, err = meter.Int64Counter("production.scans_debounced",
		metric.WithDescription("Repeated scans ignored inside the debounce window")); err != nil {
		t.log.Warn("production: metric unavailable", "name", "production.scans_debounced", "error", err)
	}
}

// Start creates a new live state for the key. It fails with ErrAlreadyActive
// when one exists; the caller should Resume instead.
func (t *Tracker) Start(ctx context.Context, in StartInput, op models.Operator) (*models.ProductionState, error) {
	key := models.LiveKey(in.OrderID, in.ProductCode)
	unlock := t.locks.Lock("key:" + key)
	defer unlock()

	if _, err := t.repo.FindLive(ctx, in.OrderID, in.ProductCode); err == nil {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrAlreadyActive, key)
	} else if !errors.Is(err, productiondomain.ErrProductionNotFound) {
		return nil, fmt.Errorf("find live state: %w", err)
	}

	s, err := models.NewProductionState(in.OrderID, in.ProductCode, in.ProductName, in.TargetQuantity, op, t.now())
	if err != nil {
		return nil, err
	}
	if err := t.repo.Insert(ctx, s); err != nil {
		return nil, fmt.Errorf("insert state: %w", err)
	}

	t.remember(ctx, s)
	t.log.InfoContext(ctx, "production started",
		"state_id", s.ID, "key", key, "target", s.TargetQuantity, "operator_id", op.ID)
	t.emitter.StateChanged(ctx, domainevents.TransitionStarted, s)
	t.emitter.Notify(ctx, domainevents.NotificationInfo, "Production started",
		fmt.Sprintf("%s started %s for order %s (target %d)", op.Name, s.ProductCode, s.OrderID, s.TargetQuantity))
	return s, nil
}

// StartFromOrder starts production for an order line, taking target and name
// from the order. With RequireStock the catalog must cover the full target.
func (t *Tracker) StartFromOrder(ctx context.Context, orderID, productCode string, op models.Operator) (*models.ProductionState, error) {
	if t.orders == nil {
		return nil, fmt.Errorf("%w: no order source configured", productiondomain.ErrOrderNotFound)
	}
	order, err := t.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	line, ok := order.Line(productCode)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no line %s", productiondomain.ErrOrderLineNotFound, orderID, productCode)
	}

	if t.cfg.RequireStock && t.stock != nil {
		shortages, err := t.stock.CheckStock(ctx, productCode, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("check stock: %w", err)
		}
		if len(shortages) > 0 {
			return nil, fmt.Errorf("%w: %s", productiondomain.ErrInsufficientStock, strings.Join(shortages, "; "))
		}
	}

	return t.Start(ctx, StartInput{
		OrderID:        orderID,
		ProductCode:    productCode,
		ProductName:    line.Name,
		TargetQuantity: line.Quantity,
	}, op)
}

// Select is the operator's "pick a product" flow: resume the live state if
// there is one, otherwise start from the order. It never creates a duplicate.
// resumed reports which branch was taken.
func (t *Tracker) Select(ctx context.Context, orderID, productCode string, op models.Operator) (s *models.ProductionState, resumed bool, err error) {
	s, err = t.Resume(ctx, orderID, productCode)
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, productiondomain.ErrProductionNotFound) {
		return nil, false, err
	}

	s, err = t.StartFromOrder(ctx, orderID, productCode, op)
	if errors.Is(err, productiondomain.ErrAlreadyActive) {
		// lost a start race; the winner's state is live now
		s, err = t.Resume(ctx, orderID, productCode)
		return s, err == nil, err
	}
	return s, false, err
}

// Resume returns the live state for the key unchanged, or ErrProductionNotFound.
func (t *Tracker) Resume(ctx context.Context, orderID, productCode string) (*models.ProductionState, error) {
	if t.index != nil {
		entry, err := t.index.Get(ctx, orderID, productCode)
		switch {
		case err == nil:
			s, err := t.repo.GetByID(ctx, entry.StateID)
			if err == nil && s.IsLive() && s.OrderID == orderID && s.ProductCode == productCode {
				return s, nil
			}
			t.forget(ctx, orderID, productCode)
		case !errors.Is(err, redis.Nil):
			t.log.WarnContext(ctx, "production: live index read failed", "error", err)
		}
	}

	s, err := t.repo.FindLive(ctx, orderID, productCode)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	t.remember(ctx, s)
	return s, nil
}

// Get returns a state by id.
func (t *Tracker) Get(ctx context.Context, id uuid.UUID) (*models.ProductionState, error) {
	s, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return s, nil
}

// ConfirmUnit adds in.Quantity units to the state after the barcode has been
// accepted. The barcode "manual" records a manual entry and skips the
// validator. A repeat of the same barcode inside the debounce window is a no-op.
// Validation failures leave the state unchanged.
func (t *Tracker) ConfirmUnit(ctx context.Context, in ConfirmInput, op models.Operator) (*ConfirmResult, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity %d", productiondomain.ErrInvalidQuantity, in.Quantity)
	}
	if !op.Valid() {
		return nil, fmt.Errorf("%w: operator id is required", productiondomain.ErrInvalidOperator)
	}

	ctx = logger.WithContext(ctx, "state_id", in.StateID)
	unlock := t.locks.Lock("state:" + in.StateID.String())
	defer unlock()

	s, err := t.repo.GetByID(ctx, in.StateID)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if s.IsCompleted {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionCompleted, s.ID)
	}

	manual := in.Barcode == models.ManualEntry
	tier := "manual"
	if manual {
		if !t.cfg.AllowManualEntry {
			return nil, productiondomain.ErrManualEntryDisabled
		}
	} else {
		decision, verr := t.validator.Validate(ctx, in.Barcode, s.ProductCode)
		if verr != nil {
			t.log.WarnContext(ctx, "production: barcode tier error", "error", verr)
		}
		if !decision.Accepted {
			t.add(ctx, t.scansRejected, 1, attribute.String("tier", decision.Tier))
			t.log.InfoContext(ctx, "barcode rejected",
				"barcode", in.Barcode, "product_code", s.ProductCode, "tier", decision.Tier)
			t.emitter.Notify(ctx, domainevents.NotificationWarning, "Barcode rejected",
				fmt.Sprintf("%q does not match %s", in.Barcode, s.ProductCode))
			return nil, fmt.Errorf("%w: %q for %s", productiondomain.ErrBarcodeRejected, in.Barcode, s.ProductCode)
		}
		tier = decision.Tier

		claimed, release := t.claimScan(ctx, s.ID, in.Barcode)
		if !claimed {
			t.add(ctx, t.scansDebounced, 1)
			return &ConfirmResult{State: s, Debounced: true, Tier: tier}, nil
		}
		confirmed, err := t.applyConfirm(ctx, s, in, op)
		if err != nil {
			release()
			return nil, err
		}
		return t.afterConfirm(ctx, confirmed, in, tier), nil
	}

	confirmed, err := t.applyConfirm(ctx, s, in, op)
	if err != nil {
		return nil, err
	}
	return t.afterConfirm(ctx, confirmed, in, tier), nil
}

func (t *Tracker) applyConfirm(ctx context.Context, s *models.ProductionState, in ConfirmInput, op models.Operator) (*models.ProductionState, error) {
	entry, err := s.Confirm(in.Barcode, in.Quantity, op, t.now())
	if err != nil {
		return nil, err
	}
	if err := s.CheckInvariants(); err != nil {
		return nil, err
	}
	if err := t.repo.Update(ctx, s, []models.HistoryEntry{entry}); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}
	return s, nil
}

func (t *Tracker) afterConfirm(ctx context.Context, s *models.ProductionState, in ConfirmInput, tier string) *ConfirmResult {
	t.add(ctx, t.unitsConfirmed, int64(in.Quantity), attribute.String("tier", tier))
	t.emitter.StateChanged(ctx, domainevents.TransitionConfirmed, s)
	if s.Remaining() == 0 {
		t.emitter.Notify(ctx, domainevents.NotificationSuccess, "Target reached",
			fmt.Sprintf("%s for order %s reached %d", s.ProductCode, s.OrderID, s.TargetQuantity))
	}
	return &ConfirmResult{State: s, Tier: tier}
}

// Complete closes the state once produced equals target.
func (t *Tracker) Complete(ctx context.Context, id uuid.UUID, op models.Operator) (*models.ProductionState, error) {
	unlock := t.locks.Lock("state:" + id.String())
	defer unlock()

	s, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return t.complete(ctx, s, op)
}

// complete expects the state lock to be held.
func (t *Tracker) complete(ctx context.Context, s *models.ProductionState, op models.Operator) (*models.ProductionState, error) {
	if err := s.Complete(t.now()); err != nil {
		return nil, err
	}
	if err := s.CheckInvariants(); err != nil {
		return nil, err
	}
	if err := t.repo.Update(ctx, s, nil); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}

	t.forget(ctx, s.OrderID, s.ProductCode)
	t.log.InfoContext(ctx, "production completed",
		"state_id", s.ID, "key", s.Key(), "produced", s.ProducedQuantity, "operator_id", op.ID)
	t.emitter.StateChanged(ctx, domainevents.TransitionCompleted, s)
	t.emitter.Notify(ctx, domainevents.NotificationSuccess, "Production completed",
		fmt.Sprintf("%s completed %d x %s for order %s", op.Name, s.ProducedQuantity, s.ProductCode, s.OrderID))
	return s, nil
}

// SaveAndClose is the pause path: it persists the partial state and leaves it
// live. A state whose target is reached is completed instead.
func (t *Tracker) SaveAndClose(ctx context.Context, id uuid.UUID, op models.Operator) (*models.ProductionState, error) {
	unlock := t.locks.Lock("state:" + id.String())
	defer unlock()

	s, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	if s.IsCompleted {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionCompleted, s.ID)
	}
	if s.Remaining() == 0 {
		return t.complete(ctx, s, op)
	}

	s.LastUpdateTime = t.now().UTC()
	if err := t.repo.Update(ctx, s, nil); err != nil {
		return nil, fmt.Errorf("update state: %w", err)
	}
	t.emitter.StateChanged(ctx, domainevents.TransitionSaved, s)
	return s, nil
}

// Cancel deletes a state that has not been completed. It cannot be undone.
func (t *Tracker) Cancel(ctx context.Context, id uuid.UUID, op models.Operator) error {
	unlock := t.locks.Lock("state:" + id.String())
	defer unlock()

	s, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get state: %w", err)
	}
	if s.IsCompleted {
		return fmt.Errorf("%w: %s", productiondomain.ErrProductionCompleted, s.ID)
	}
	if err := t.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}

	t.forget(ctx, s.OrderID, s.ProductCode)
	t.log.InfoContext(ctx, "production cancelled",
		"state_id", s.ID, "key", s.Key(), "produced", s.ProducedQuantity, "operator_id", op.ID)
	s.IsActive = false
	t.emitter.StateChanged(ctx, domainevents.TransitionCancelled, s)
	t.emitter.Notify(ctx, domainevents.NotificationInfo, "Production cancelled",
		fmt.Sprintf("%s for order %s was cancelled at %d of %d", s.ProductCode, s.OrderID, s.ProducedQuantity, s.TargetQuantity))
	return nil
}

// ListForOperator returns the operator's states, live ones first.
func (t *Tracker) ListForOperator(ctx context.Context, operatorID string) ([]*models.ProductionState, error) {
	states, err := t.repo.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	return states, nil
}

// claimScan takes the debounce slot for the scan before the write. It fails
// open: a debouncer error never blocks a scan. The returned func gives the
// slot back when the write fails.
func (t *Tracker) claimScan(ctx context.Context, id uuid.UUID, barcode string) (bool, func()) {
	key := id.String() + ":" + barcode
	claimed, err := t.debouncer.Claim(ctx, key, t.cfg.DebounceWindow)
	if err != nil {
		t.log.WarnContext(ctx, "production: debounce claim failed", "state_id", id, "error", err)
		return true, func() {}
	}
	if !claimed {
		return false, nil
	}
	return true, func() {
		if err := t.debouncer.Release(context.WithoutCancel(ctx), key); err != nil {
			t.log.WarnContext(ctx, "production: debounce release failed", "state_id", id, "error", err)
		}
	}
}

func (t *Tracker) remember(ctx context.Context, s *models.ProductionState) {
	if t.index == nil {
		return
	}
	if err := t.index.Set(ctx, &pkgcache.LiveEntry{
		StateID:     s.ID,
		OrderID:     s.OrderID,
		ProductCode: s.ProductCode,
		OperatorID:  s.Operator.ID,
		UpdatedAt:   s.LastUpdateTime,
	}); err != nil {
		t.log.WarnContext(ctx, "production: live index write failed", "key", s.Key(), "error", err)
	}
}

func (t *Tracker) forget(ctx context.Context, orderID, productCode string) {
	if t.index == nil {
		return
	}
	if err := t.index.Delete(ctx, orderID, productCode); err != nil {
		t.log.WarnContext(ctx, "production: live index delete failed", "key", models.LiveKey(orderID, productCode), "error", err)
	}
}

func (t *Tracker) add(ctx context.Context, c metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, n, metric.WithAttributes(attrs...))
}
