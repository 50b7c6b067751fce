package mallHandler

import (
	"github.com/go-chi/chi/v5"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/middleware"
)

// Mount registers the customer-facing routes under /mall/me.
func Mount(r chi.Router, carts *CartHandler, orders *OrderHandler) {
	r.Route("/mall/me", func(r chi.Router) {
		r.Use(middleware.RequireCustomer)
		r.Route("/cart", carts.RegisterRoutes)
		r.Route("/orders", orders.RegisterRoutes)
	})
}
