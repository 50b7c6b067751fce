package main

import (
	"context"

	"github.com/go-chi/chi/v5"

	consoleDI "github.com/HsiaoHungKai/myDonut/internal/platform/di/console"
	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
	"github.com/HsiaoHungKai/myDonut/internal/platform/server"
)

func main() {
	server.Run("console", func(ctx context.Context, infra *shared.Infra) (func(chi.Router), error) {
		cont, err := consoleDI.NewContainer(ctx, infra)
		if err != nil {
			return nil, err
		}
		return func(r chi.Router) { consoleDI.Register(r, cont) }, nil
	})
}
