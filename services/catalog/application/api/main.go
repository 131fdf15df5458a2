package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shopfloor/pkg/app"
	"github.com/ghuser/shopfloor/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
)

// CatalogRoutes registers catalog endpoints on the provided chi router.
func CatalogRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers catalog endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/catalog", func(r chi.Router) {
		r.Route("/products/{kind}/{id}", func(r chi.Router) {
			r.Get("/cost", handlers.NewGetCostHandler(svcs).Execute)
			r.Post("/cost/refresh", handlers.NewRefreshCostHandler(svcs).Execute)
			r.Get("/stock", handlers.NewGetStockHandler(svcs).Execute)
			r.Get("/requirements", handlers.NewGetRequirementsHandler(svcs).Execute)
		})
		r.Post("/costs/refresh", handlers.NewRefreshAllHandler(svcs).Execute)
		r.Post("/bom-edges", handlers.NewPostEdgeHandler(svcs).Execute)
		r.Delete("/bom-edges", handlers.NewDeleteEdgeHandler(svcs).Execute)
	})
}
