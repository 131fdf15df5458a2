package services

import (
	"github.com/ghuser/shopfloor/pkg/app"
	"github.com/ghuser/shopfloor/pkg/workflows"
	"github.com/ghuser/shopfloor/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the catalog context.
type Services struct {
	Cost *CostService

	// Temporal is nil when sweeps run inline.
	Temporal  *workflows.TemporalClient
	TaskQueue string
}

// New wires catalog application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewCatalogRepository(a.Db, a.EventBus)
	s := &Services{
		Cost:     NewCostService(repo, a.Logger),
		Temporal: a.TemporalClient,
	}
	if a.TemporalClient != nil {
		s.TaskQueue = a.TemporalClient.TaskQueue
	}
	return s
}
