package main

import (
	"context"

	"github.com/go-chi/chi/v5"

	mallDI "github.com/HsiaoHungKai/myDonut/internal/platform/di/mall"
	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
	"github.com/HsiaoHungKai/myDonut/internal/platform/server"
)

func main() {
	server.Run("mall", func(ctx context.Context, infra *shared.Infra) (func(chi.Router), error) {
		cont, err := mallDI.NewContainer(ctx, infra)
		if err != nil {
			return nil, err
		}
		return func(r chi.Router) { mallDI.Register(r, cont) }, nil
	})
}
