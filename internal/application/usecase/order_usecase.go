// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

const orderTag = "order_usecase"

// OrderUsecase は注文の確定・編集・削除と参照を担当します。
// 在庫の増減はすべてこのユースケースのトランザクション内で行われます。
type OrderUsecase struct {
	tm TxManager
	options
}

func NewOrderUsecase(tm TxManager, opts ...Option) *OrderUsecase {
	return &OrderUsecase{tm: tm, options: buildOptions(opts)}
}

// ============================================================
// Placement
// ============================================================

// PlaceOrderInput: Items == nil means "use the customer's cart".
// An explicit empty (non-nil) slice is rejected as an empty order.
type PlaceOrderInput struct {
	CustomerID int64
	StaffID    *int64
	Items      []orderdom.LineItem
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (detail orderdom.Detail, err error) {
	const op = "order.place"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if in.CustomerID <= 0 {
		return orderdom.Detail{}, common.InvalidArgument(op, "customer id is required")
	}

	fromCart := in.Items == nil
	var items []orderdom.LineItem
	if !fromCart {
		items, err = orderdom.NormalizeItems(in.Items)
		if err != nil {
			return orderdom.Detail{}, classify(orderTag, op, err, "customer=%d", in.CustomerID)
		}
	}

	var cust customerdom.Customer
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		c, err := tx.Customers().GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		cust = c

		if in.StaffID != nil {
			ok, err := tx.Staffs().Exists(ctx, *in.StaffID)
			if err != nil {
				return err
			}
			if !ok {
				return staffdom.ErrNotFound
			}
		}

		if fromCart {
			if err := tx.Carts().LockCustomer(ctx, in.CustomerID); err != nil {
				return err
			}
			lines, err := tx.Carts().ListByCustomer(ctx, in.CustomerID)
			if err != nil {
				return err
			}
			cart := cartdom.New(in.CustomerID, lines)
			if cart.IsEmpty() {
				return common.ErrEmptyOrder
			}
			items = cartItems(cart)
		}
		if len(items) == 0 {
			return common.ErrEmptyOrder
		}

		stock, err := tx.Products().LockForUpdate(ctx, orderdom.ProductIDs(items))
		if err != nil {
			return err
		}
		if err := checkStock(op, items, stock); err != nil {
			return err
		}

		id, err := tx.IDs().Next(ctx, identifier.KindOrder, 0)
		if err != nil {
			return err
		}
		o, err := orderdom.New(id, in.CustomerID, in.StaffID, u.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.Orders().Insert(ctx, o); err != nil {
			return err
		}

		lines := orderdom.BuildLines(id, items)
		if err := writeLines(ctx, tx, lines, stock); err != nil {
			return err
		}

		if fromCart {
			if err := tx.Carts().DeleteByCustomer(ctx, in.CustomerID); err != nil {
				return err
			}
		}

		detail = orderdom.NewDetail(o, lines, stock)
		return nil
	})
	if err != nil {
		return orderdom.Detail{}, classify(orderTag, op, err, "customer=%d from_cart=%t", in.CustomerID, fromCart)
	}

	log.Printf("[%s] placed order=%d customer=%d lines=%d total=%d", orderTag, detail.ID, detail.CustomerID, len(detail.Lines), detail.TotalAmount)
	u.metrics.AddStockMovement("debit", detail.TotalItems)
	u.publish(ctx, OrderEvent{Type: OrderPlaced, OrderID: detail.ID, Detail: detail, Customer: cust})
	return detail, nil
}

func cartItems(c cartdom.Cart) []orderdom.LineItem {
	items := make([]orderdom.LineItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, orderdom.LineItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items
}

// ============================================================
// Queries
// ============================================================

// GetOrder returns the confirmation/history projection of an order.
func (u *OrderUsecase) GetOrder(ctx context.Context, orderID int64) (orderdom.Detail, error) {
	const op = "order.get"
	if orderID <= 0 {
		return orderdom.Detail{}, common.InvalidArgument(op, "order id is required")
	}
	var d orderdom.Detail
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		d, err = loadDetail(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return orderdom.Detail{}, classify(orderTag, op, err, "order=%d", orderID)
	}
	return d, nil
}

// GetCustomerOrder is GetOrder restricted to the owner. Another customer's
// order is reported as not found.
func (u *OrderUsecase) GetCustomerOrder(ctx context.Context, customerID, orderID int64) (orderdom.Detail, error) {
	d, err := u.GetOrder(ctx, orderID)
	if err != nil {
		return orderdom.Detail{}, err
	}
	if d.CustomerID != customerID {
		return orderdom.Detail{}, common.NotFound("order.get", "order")
	}
	return d, nil
}

func (u *OrderUsecase) ListCustomerOrders(ctx context.Context, customerID int64) ([]orderdom.Summary, error) {
	const op = "order.list_customer"
	var out []orderdom.Summary
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		ok, err := tx.Customers().Exists(ctx, customerID)
		if err != nil {
			return err
		}
		if !ok {
			return customerdom.ErrNotFound
		}
		out, err = tx.Orders().ListSummaries(ctx, &customerID)
		return err
	})
	if err != nil {
		return nil, classify(orderTag, op, err, "customer=%d", customerID)
	}
	return out, nil
}

func (u *OrderUsecase) ListOrders(ctx context.Context) ([]orderdom.Summary, error) {
	const op = "order.list"
	var out []orderdom.Summary
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = tx.Orders().ListSummaries(ctx, nil)
		return err
	})
	if err != nil {
		return nil, classify(orderTag, op, err, "")
	}
	return out, nil
}

func loadDetail(ctx context.Context, tx Tx, orderID int64) (orderdom.Detail, error) {
	o, err := tx.Orders().GetByID(ctx, orderID)
	if err != nil {
		return orderdom.Detail{}, err
	}
	lines, err := tx.Orders().Lines(ctx, orderID)
	if err != nil {
		return orderdom.Detail{}, err
	}
	products, err := tx.Products().Snapshot(ctx, lineProductIDs(lines))
	if err != nil {
		return orderdom.Detail{}, err
	}
	return orderdom.NewDetail(o, lines, products), nil
}

// ============================================================
// Post-commit
// ============================================================

func (u *OrderUsecase) publish(ctx context.Context, ev OrderEvent) {
	for _, s := range u.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			log.Printf("[%s] WARN: event sink failed type=%s order=%d err=%v", orderTag, ev.Type, ev.OrderID, err)
		}
	}
}

// isNotFound is used where a missing row is an expected branch.
func isNotFound(err error) bool {
	return errors.Is(err, cartdom.ErrNotFound) ||
		errors.Is(err, productdom.ErrNotFound) ||
		errors.Is(err, orderdom.ErrNotFound)
}
