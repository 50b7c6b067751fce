package console

import (
	"github.com/go-chi/chi/v5"

	consolehandler "github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/console/handler"
)

// Register mounts console routes onto r.
func Register(r chi.Router, cont *Container) {
	if r == nil || cont == nil {
		return
	}
	consolehandler.Mount(r, cont.OrderHandler, cont.CatalogHandler)
}
