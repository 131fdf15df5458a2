package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shopfloor/pkg/app"
	"github.com/ghuser/shopfloor/pkg/auth"
	"github.com/ghuser/shopfloor/services/production/application/handlers"
	appsvcs "github.com/ghuser/shopfloor/services/production/application/services"
)

// ProductionRoutes registers production endpoints on the provided chi router.
// Every route requires a signed-in operator.
func ProductionRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	Mount(r, svcs, auth.RequireOperator(a.SessionStore, a.Logger))
}

// Mount registers production endpoints backed by svcs behind mw.
func Mount(r chi.Router, svcs *appsvcs.Services, mw ...func(http.Handler) http.Handler) {
	r.Route("/production", func(r chi.Router) {
		r.Use(mw...)
		r.Post("/select", handlers.NewSelectHandler(svcs).Execute)
		r.Post("/start", handlers.NewStartHandler(svcs).Execute)
		r.Get("/live", handlers.NewLiveHandler(svcs).Execute)
		r.Get("/states", handlers.NewListStatesHandler(svcs).Execute)
		r.Route("/states/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetStateHandler(svcs).Execute)
			r.Delete("/", handlers.NewCancelHandler(svcs).Execute)
			r.Post("/confirm", handlers.NewConfirmHandler(svcs).Execute)
			r.Post("/complete", handlers.NewCompleteHandler(svcs).Execute)
			r.Post("/save", handlers.NewSaveHandler(svcs).Execute)
		})
	})
}
