package mall

import (
	"context"
	"errors"

	mallhandler "github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/mall/handler"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
)

// Container is Mall DI container.
// Pure DI: build deps only.
type Container struct {
	Infra *shared.Infra

	CartUC  *usecase.CartUsecase
	OrderUC *usecase.OrderUsecase

	CartHandler  *mallhandler.CartHandler
	OrderHandler *mallhandler.OrderHandler
}

func NewContainer(_ context.Context, infra *shared.Infra) (*Container, error) {
	if infra == nil || infra.TxManager == nil {
		return nil, errors.New("mall.di: infra is not initialized")
	}

	opts := infra.UsecaseOptions()
	c := &Container{
		Infra:   infra,
		CartUC:  usecase.NewCartUsecase(infra.TxManager, opts...),
		OrderUC: usecase.NewOrderUsecase(infra.TxManager, opts...),
	}
	c.CartHandler = mallhandler.NewCartHandler(c.CartUC)
	c.OrderHandler = mallhandler.NewOrderHandler(c.OrderUC)
	return c, nil
}
