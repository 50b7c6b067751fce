package consoleHandler

import (
	"github.com/go-chi/chi/v5"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/middleware"
)

// Mount registers the staff panel routes under /console.
func Mount(r chi.Router, orders *OrderHandler, catalog *CatalogHandler) {
	r.Route("/console", func(r chi.Router) {
		r.Use(middleware.OptionalStaff)
		r.Route("/orders", orders.RegisterRoutes)
		catalog.RegisterRoutes(r)
	})
}
