package workflows

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/infrastructure/persistence/memory"
)

func seedCatalog() *memory.CatalogRepository {
	repo := memory.NewCatalogRepository()
	repo.PutProduct(models.RawMaterial{
		ProductInfo:   models.ProductInfo{ID: 1, Code: "STEEL", Active: true},
		PurchasePrice: 10,
	})
	repo.PutProduct(models.SemiFinished{
		ProductInfo: models.ProductInfo{ID: 1, Code: "FRAME", Active: true},
		UnitCost:    1,
		CostSource:  models.CostSourceManual,
	})
	repo.PutProduct(models.SemiFinished{
		ProductInfo: models.ProductInfo{ID: 2, Code: "LOOSE", Active: true},
		UnitCost:    7,
		CostSource:  models.CostSourceManual,
	})
	repo.PutProduct(models.FinalProduct{
		ProductInfo: models.ProductInfo{ID: 1, Code: "CAB", Active: true},
		CostSource:  models.CostSourceManual,
	})
	repo.PutEdge(models.BOMEdge{ParentID: 1, ParentKind: models.KindSemiFinished, ChildID: 1, ChildKind: models.KindRaw, QuantityPerUnit: 2})
	repo.PutEdge(models.BOMEdge{ParentID: 1, ParentKind: models.KindFinal, ChildID: 1, ChildKind: models.KindSemiFinished, QuantityPerUnit: 3})
	return repo
}

func TestRefreshCostsWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	repo := seedCatalog()
	costs := appsvcs.NewCostService(repo, logger.New(&config.Config{LogLevel: "error"}))
	env.RegisterActivity(&Activities{Costs: costs})

	env.ExecuteWorkflow(RefreshCostsWorkflow, RefreshCostsInput{})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var summary appsvcs.RefreshSummary
	require.NoError(t, env.GetWorkflowResult(&summary))
	require.Equal(t, 2, summary.Refreshed)
	require.Equal(t, 1, summary.Skipped)
	require.Zero(t, summary.Failed)

	frame, err := repo.GetProduct(t.Context(), models.ProductRef{ID: 1, Kind: models.KindSemiFinished})
	require.NoError(t, err)
	require.InDelta(t, 20, frame.UnitPrice(), 1e-9)

	cab, err := repo.GetProduct(t.Context(), models.ProductRef{ID: 1, Kind: models.KindFinal})
	require.NoError(t, err)
	require.InDelta(t, 60, cab.UnitPrice(), 1e-9)
	require.Equal(t, models.CostSourceComputed, cab.(models.FinalProduct).CostSource)

	loose, err := repo.GetProduct(t.Context(), models.ProductRef{ID: 2, Kind: models.KindSemiFinished})
	require.NoError(t, err)
	require.InDelta(t, 7, loose.UnitPrice(), 1e-9, "product without a BOM keeps its manual cost")
}

func TestRefreshCostsWorkflow_CycleCountedAsFailure(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	repo := seedCatalog()
	repo.PutEdge(models.BOMEdge{ParentID: 1, ParentKind: models.KindSemiFinished, ChildID: 2, ChildKind: models.KindSemiFinished, QuantityPerUnit: 1})
	repo.PutEdge(models.BOMEdge{ParentID: 2, ParentKind: models.KindSemiFinished, ChildID: 1, ChildKind: models.KindSemiFinished, QuantityPerUnit: 1})
	costs := appsvcs.NewCostService(repo, logger.New(&config.Config{LogLevel: "error"}))
	env.RegisterActivity(&Activities{Costs: costs})

	env.ExecuteWorkflow(RefreshCostsWorkflow, RefreshCostsInput{Kinds: []models.Kind{models.KindSemiFinished}})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var summary appsvcs.RefreshSummary
	require.NoError(t, env.GetWorkflowResult(&summary))
	require.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Errors, 2)
}
