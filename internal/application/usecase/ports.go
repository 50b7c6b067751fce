package usecase

import (
	"context"
	"time"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// ========================
// Transaction ports
// ========================

// Tx is a transaction-scoped handle. Every repository it returns runs inside
// the same transaction and must not be used after the WithTx callback returns.
type Tx interface {
	Products() productdom.Repository
	Carts() cartdom.Store
	Orders() orderdom.Store
	Customers() customerdom.Repository
	Staffs() staffdom.Repository
	IDs() identifier.Allocator
}

// TxManager はトランザクションの開始・終了を管理します。
// fn がエラーを返す、または panic した場合は必ずロールバックされます。
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// ========================
// Ambient ports
// ========================

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Metrics はユースケースの計測ポートです（infra/metrics が実装）。
type Metrics interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	AddStockMovement(direction string, units int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, string, time.Duration) {}
func (nopMetrics) AddStockMovement(string, int)                   {}

// ========================
// Post-commit events
// ========================

type OrderEventType string

const (
	OrderPlaced  OrderEventType = "order.placed"
	OrderUpdated OrderEventType = "order.updated"
	OrderDeleted OrderEventType = "order.deleted"
)

// OrderEvent is published after the transaction committed.
// Customer is filled for placed and updated events.
type OrderEvent struct {
	Type     OrderEventType
	OrderID  int64
	Detail   orderdom.Detail
	Customer customerdom.Customer
}

// OrderEventSink receives committed order changes. A failing sink is logged
// and never affects the already committed order.
type OrderEventSink interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// ========================
// Options
// ========================

type options struct {
	clock   Clock
	metrics Metrics
	sinks   []OrderEventSink
}

type Option func(*options)

func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func WithEventSinks(sinks ...OrderEventSink) Option {
	return func(o *options) {
		for _, s := range sinks {
			if s != nil {
				o.sinks = append(o.sinks, s)
			}
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: systemClock{}, metrics: nopMetrics{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
