package mall

import (
	"github.com/go-chi/chi/v5"

	mallhandler "github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/mall/handler"
)

// Register mounts mall routes onto r.
func Register(r chi.Router, cont *Container) {
	if r == nil || cont == nil {
		return
	}
	mallhandler.Mount(r, cont.CartHandler, cont.OrderHandler)
}
