package usecase

import (
	"errors"
	"fmt"
	"log"
	"time"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// classify は境界で返すエラーを必ず Kind 付きにします。
// 既知の sentinel は対応する Kind に、それ以外はログを出したうえで Transient に変換します。
func classify(tag, op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if common.KindOf(err) != common.KindUnknown {
		return err
	}

	switch {
	case errors.Is(err, orderdom.ErrNotFound):
		return common.E(common.KindNotFound, op, "order not found", err)
	case errors.Is(err, customerdom.ErrNotFound):
		return common.E(common.KindNotFound, op, "customer not found", err)
	case errors.Is(err, staffdom.ErrNotFound):
		return common.E(common.KindNotFound, op, "staff not found", err)
	case errors.Is(err, productdom.ErrNotFound):
		return common.E(common.KindNotFound, op, "product not found", err)
	case errors.Is(err, cartdom.ErrNotFound):
		return common.E(common.KindNotFound, op, "cart line not found", err)

	case errors.Is(err, customerdom.ErrConflict),
		errors.Is(err, staffdom.ErrConflict),
		errors.Is(err, productdom.ErrConflict):
		return common.E(common.KindConflict, op, "already exists", err)

	case errors.Is(err, orderdom.ErrInvalidItems),
		errors.Is(err, orderdom.ErrInvalidQuantity),
		errors.Is(err, orderdom.ErrInvalidOrder),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, cartdom.ErrInvalidCart),
		errors.Is(err, productdom.ErrInvalidProduct),
		errors.Is(err, productdom.ErrInvalidName),
		errors.Is(err, productdom.ErrInvalidPrice),
		errors.Is(err, productdom.ErrInvalidStock),
		errors.Is(err, customerdom.ErrInvalidName),
		errors.Is(err, customerdom.ErrInvalidEmail),
		errors.Is(err, staffdom.ErrInvalidName),
		errors.Is(err, staffdom.ErrInvalidEmail):
		return common.E(common.KindInvalidArgument, op, err.Error(), err)
	}

	detail := fmt.Sprintf(format, args...)
	log.Printf("[%s] ERROR op=%s %s err=%v", tag, op, detail, err)
	return common.Transient(op+" "+detail, err)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return common.KindOf(err).String()
}

func (o options) observe(op string, start time.Time, err error) {
	o.metrics.ObserveOperation(op, outcome(err), time.Since(start))
}
