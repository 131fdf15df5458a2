package services

import (
	"github.com/ghuser/shopfloor/pkg/app"
	pkgcache "github.com/ghuser/shopfloor/pkg/cache"
	catalogsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
	catalogpg "github.com/ghuser/shopfloor/services/catalog/infrastructure/persistence/postgres"
	domainsvcs "github.com/ghuser/shopfloor/services/production/domain/services"
	"github.com/ghuser/shopfloor/services/production/infrastructure/barcodemap"
	"github.com/ghuser/shopfloor/services/production/infrastructure/catalogbridge"
	"github.com/ghuser/shopfloor/services/production/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the production context.
type Services struct {
	Tracker *Tracker
	Emitter *Emitter
}

// New wires production application services with infrastructure from the
// Application container. barcodes may be nil.
func New(a *app.Application, barcodes *barcodemap.Map) *Services {
	catalogRepo := catalogpg.NewCatalogRepository(a.Db, a.EventBus)
	bridge := catalogbridge.New(catalogRepo, catalogsvcs.NewCostEngine(catalogRepo))

	var table domainsvcs.MappingTable
	if barcodes != nil {
		table = barcodes
	}

	deps := TrackerDeps{
		Repo:      postgres.NewProductionRepository(a.Db),
		Orders:    postgres.NewOrderRepository(a.Db),
		Stock:     bridge,
		Validator: domainsvcs.NewDefaultBarcodeValidator(bridge, table),
	}
	if a.Redis != nil {
		deps.Debouncer = pkgcache.NewScanDebouncer(a.Redis)
		deps.Index = pkgcache.NewLiveIndex(a.Redis)
	}
	var pub Publisher
	if a.EventBus != nil {
		pub = a.EventBus
	}
	deps.Emitter = NewEmitter(pub, a.Logger)

	cfg := TrackerConfig{
		DebounceWindow:   a.Config.ScanDebounceWindow,
		RequireStock:     a.Config.ProductionRequireStock,
		AllowManualEntry: a.Config.AllowManualEntry,
	}
	return &Services{
		Tracker: NewTracker(deps, cfg, a.Logger),
		Emitter: deps.Emitter,
	}
}
