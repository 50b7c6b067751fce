package usecase

import (
	"context"
	"log"
	"time"

	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
)

type EditOrderInput struct {
	OrderID    int64
	CustomerID int64
	Items      []orderdom.LineItem
}

// EditOrder replaces the customer and lines of an order. The old lines are
// credited first and the new lines are validated against the credited stock;
// both phases share one transaction, so a failed validation also undoes the
// credit.
func (u *OrderUsecase) EditOrder(ctx context.Context, in EditOrderInput) (detail orderdom.Detail, err error) {
	const op = "order.edit"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if in.OrderID <= 0 || in.CustomerID <= 0 {
		return orderdom.Detail{}, common.InvalidArgument(op, "order id and customer id are required")
	}
	items, err := orderdom.NormalizeItems(in.Items)
	if err != nil {
		return orderdom.Detail{}, classify(orderTag, op, err, "order=%d", in.OrderID)
	}

	var (
		cust     customerdom.Customer
		credited int
	)
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.Orders().Lock(ctx, in.OrderID)
		if err != nil {
			return err
		}
		c, err := tx.Customers().GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		cust = c

		if len(items) == 0 {
			return common.ErrEmptyOrder
		}

		old, err := tx.Orders().Lines(ctx, in.OrderID)
		if err != nil {
			return err
		}

		stock, err := tx.Products().LockForUpdate(ctx, unionIDs(lineProductIDs(old), orderdom.ProductIDs(items)))
		if err != nil {
			return err
		}

		// 1) 旧明細の在庫を戻す
		if err := creditLines(ctx, tx, old, stock); err != nil {
			return err
		}
		credited = totalQuantity(old)

		// 2) ヘッダ更新・旧明細削除
		if err := tx.Orders().UpdateCustomer(ctx, in.OrderID, in.CustomerID); err != nil {
			return err
		}
		if _, err := tx.Orders().DeleteLines(ctx, in.OrderID); err != nil {
			return err
		}

		// 3) 戻した後の在庫で新明細を検証・登録
		if err := checkStock(op, items, stock); err != nil {
			return err
		}
		lines := orderdom.BuildLines(in.OrderID, items)
		if err := writeLines(ctx, tx, lines, stock); err != nil {
			return err
		}

		o.CustomerID = in.CustomerID
		detail = orderdom.NewDetail(o, lines, stock)
		return nil
	})
	if err != nil {
		return orderdom.Detail{}, classify(orderTag, op, err, "order=%d customer=%d", in.OrderID, in.CustomerID)
	}

	log.Printf("[%s] edited order=%d customer=%d lines=%d", orderTag, detail.ID, detail.CustomerID, len(detail.Lines))
	u.metrics.AddStockMovement("credit", credited)
	u.metrics.AddStockMovement("debit", detail.TotalItems)
	u.publish(ctx, OrderEvent{Type: OrderUpdated, OrderID: detail.ID, Detail: detail, Customer: cust})
	return detail, nil
}

// DeleteOrder releases the stock of an order and removes it with its lines.
func (u *OrderUsecase) DeleteOrder(ctx context.Context, orderID int64) (err error) {
	const op = "order.delete"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if orderID <= 0 {
		return common.InvalidArgument(op, "order id is required")
	}

	var credited int
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.Orders().Lock(ctx, orderID); err != nil {
			return err
		}
		lines, err := tx.Orders().Lines(ctx, orderID)
		if err != nil {
			return err
		}
		stock, err := tx.Products().LockForUpdate(ctx, unionIDs(lineProductIDs(lines), nil))
		if err != nil {
			return err
		}
		if err := creditLines(ctx, tx, lines, stock); err != nil {
			return err
		}
		if _, err := tx.Orders().DeleteLines(ctx, orderID); err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, orderID); err != nil {
			return err
		}
		credited = totalQuantity(lines)
		return nil
	})
	if err != nil {
		return classify(orderTag, op, err, "order=%d", orderID)
	}

	log.Printf("[%s] deleted order=%d credited=%d", orderTag, orderID, credited)
	u.metrics.AddStockMovement("credit", credited)
	u.publish(ctx, OrderEvent{Type: OrderDeleted, OrderID: orderID})
	return nil
}
