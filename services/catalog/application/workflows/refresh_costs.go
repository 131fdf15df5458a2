// Package workflows holds the Temporal workflow that sweeps BOM unit costs.
//
// The workflow lists products through one activity and refreshes each through
// another, so a worker restart resumes the sweep where it stopped.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
)

// RefreshCostsWorkflowID is used for every sweep so at most one runs at a time.
const RefreshCostsWorkflowID = "catalog-refresh-costs"

// RefreshCostsInput selects which kinds to sweep. Empty means semi-finished
// then final.
type RefreshCostsInput struct {
	Kinds []models.Kind `json:"kinds,omitempty"`
}

// Activities adapts CostService to Temporal activities.
type Activities struct {
	Costs *appsvcs.CostService
}

// ListProducts returns every active product ref of kind.
func (a *Activities) ListProducts(ctx context.Context, kind models.Kind) ([]models.ProductRef, error) {
	return a.Costs.ListRefs(ctx, kind)
}

// RefreshProduct recomputes and stores one product's unit cost. Domain
// failures are not retried.
func (a *Activities) RefreshProduct(ctx context.Context, ref models.ProductRef) (appsvcs.RefreshOutcome, error) {
	outcome, err := a.Costs.RefreshOne(ctx, ref)
	if err == nil {
		return outcome, nil
	}
	if errors.Is(err, catalogdomain.ErrCyclicBOM) ||
		errors.Is(err, catalogdomain.ErrInvalidKind) ||
		errors.Is(err, catalogdomain.ErrProductNotFound) {
		return appsvcs.OutcomeFailed, temporal.NewNonRetryableApplicationError(err.Error(), "catalog", err)
	}
	return appsvcs.OutcomeFailed, err
}

// RefreshCostsWorkflow refreshes the unit cost of every product of the
// requested kinds. A product that fails is recorded in the summary and the
// sweep continues.
func RefreshCostsWorkflow(ctx workflow.Context, in RefreshCostsInput) (*appsvcs.RefreshSummary, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})
	log := workflow.GetLogger(ctx)

	kinds := in.Kinds
	if len(kinds) == 0 {
		kinds = []models.Kind{models.KindSemiFinished, models.KindFinal}
	}

	var a *Activities
	summary := &appsvcs.RefreshSummary{}
	for _, kind := range kinds {
		var refs []models.ProductRef
		if err := workflow.ExecuteActivity(ctx, a.ListProducts, kind).Get(ctx, &refs); err != nil {
			return summary, fmt.Errorf("list %s products: %w", kind, err)
		}
		for _, ref := range refs {
			var outcome appsvcs.RefreshOutcome
			err := workflow.ExecuteActivity(ctx, a.RefreshProduct, ref).Get(ctx, &outcome)
			if err != nil {
				outcome = appsvcs.OutcomeFailed
				log.Warn("refresh failed", "product", ref.String(), "error", err)
			}
			summary.Add(ref, outcome, err)
		}
	}

	log.Info("refresh sweep finished",
		"refreshed", summary.Refreshed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// Register wires RefreshCostsWorkflow and its activities into a worker.
func Register(r worker.Registry, costs *appsvcs.CostService) {
	r.RegisterWorkflow(RefreshCostsWorkflow)
	r.RegisterActivity(&Activities{Costs: costs})
}

// StartRefresh starts a sweep on taskQueue and returns its run id. A sweep
// already in flight is reused rather than duplicated.
func StartRefresh(ctx context.Context, c client.Client, taskQueue string, in RefreshCostsInput) (string, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       RefreshCostsWorkflowID,
		TaskQueue:                taskQueue,
		WorkflowExecutionTimeout: time.Hour,
	}, RefreshCostsWorkflow, in)
	if err != nil {
		return "", fmt.Errorf("start refresh workflow: %w", err)
	}
	return run.GetRunID(), nil
}
