package console

import (
	"context"
	"errors"

	consolehandler "github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/console/handler"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
)

// Container is Console DI container.
type Container struct {
	Infra *shared.Infra

	OrderUC   *usecase.OrderUsecase
	CatalogUC *usecase.CatalogUsecase

	OrderHandler   *consolehandler.OrderHandler
	CatalogHandler *consolehandler.CatalogHandler
}

func NewContainer(_ context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil || infra.TxManager == nil {
		return nil, errors.New("console.di: infra is not initialized")
	}

	opts := infra.UsecaseOptions()
	c := &Container{
		Infra:     infra,
		OrderUC:   usecase.NewOrderUsecase(infra.TxManager, opts...),
		CatalogUC: usecase.NewCatalogUsecase(infra.TxManager, opts...),
	}
	c.OrderHandler = consolehandler.NewOrderHandler(c.OrderUC)
	c.CatalogHandler = consolehandler.NewCatalogHandler(c.CatalogUC)
	return c, nil
}
