package db

import (
	"context"
	"database/sql"
	"errors"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
)

// PostgreSQL implementation of order.Store (orders + order_items)
type OrderRepositoryPG struct {
	run dbcommon.Runner
}

func NewOrderRepositoryPG(run dbcommon.Runner) *OrderRepositoryPG {
	return &OrderRepositoryPG{run: run}
}

var _ orderdom.Store = (*OrderRepositoryPG)(nil)

// ========================
// orders
// ========================

func (r *OrderRepositoryPG) Lock(ctx context.Context, id int64) (orderdom.Order, error) {
	const q = `
SELECT order_id, customer_id, order_date, staff_id
FROM orders
WHERE order_id = $1
FOR UPDATE`
	return r.getOne(ctx, q, id)
}

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id int64) (orderdom.Order, error) {
	const q = `
SELECT order_id, customer_id, order_date, staff_id
FROM orders
WHERE order_id = $1`
	return r.getOne(ctx, q, id)
}

func (r *OrderRepositoryPG) Insert(ctx context.Context, o orderdom.Order) error {
	const q = `
INSERT INTO orders (order_id, customer_id, order_date, staff_id)
VALUES ($1, $2, $3, $4)`
	_, err := r.run.ExecContext(ctx, q, o.ID, o.CustomerID, o.PlacedAt, dbcommon.ToNullInt64(o.StaffID))
	if dbcommon.IsUniqueViolation(err) || dbcommon.IsForeignKeyViolation(err) {
		return orderdom.ErrConflict
	}
	return err
}

func (r *OrderRepositoryPG) UpdateCustomer(ctx context.Context, id, customerID int64) error {
	res, err := r.run.ExecContext(ctx, `UPDATE orders SET customer_id = $1 WHERE order_id = $2`, customerID, id)
	if err != nil {
		if dbcommon.IsForeignKeyViolation(err) {
			return orderdom.ErrConflict
		}
		return err
	}
	return requireAffected(res, orderdom.ErrNotFound)
}

func (r *OrderRepositoryPG) Delete(ctx context.Context, id int64) error {
	res, err := r.run.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, id)
	if err != nil {
		if dbcommon.IsForeignKeyViolation(err) {
			return orderdom.ErrConflict
		}
		return err
	}
	return requireAffected(res, orderdom.ErrNotFound)
}

func (r *OrderRepositoryPG) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	var n int
	err := r.run.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&n)
	return n, err
}

// ========================
// order_items
// ========================

func (r *OrderRepositoryPG) Lines(ctx context.Context, id int64) ([]orderdom.Line, error) {
	const q = `
SELECT order_id, item_id, product_id, quantity
FROM order_items
WHERE order_id = $1
ORDER BY item_id`
	rows, err := r.run.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Line{}
	for rows.Next() {
		var l orderdom.Line
		if err := rows.Scan(&l.OrderID, &l.LineID, &l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OrderRepositoryPG) InsertLine(ctx context.Context, l orderdom.Line) error {
	const q = `
INSERT INTO order_items (order_id, item_id, product_id, quantity)
VALUES ($1, $2, $3, $4)`
	_, err := r.run.ExecContext(ctx, q, l.OrderID, l.LineID, l.ProductID, l.Quantity)
	if dbcommon.IsUniqueViolation(err) || dbcommon.IsForeignKeyViolation(err) {
		return orderdom.ErrConflict
	}
	return err
}

func (r *OrderRepositoryPG) DeleteLines(ctx context.Context, id int64) (int, error) {
	res, err := r.run.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ========================
// projections
// ========================

func (r *OrderRepositoryPG) ListSummaries(ctx context.Context, customerID *int64) ([]orderdom.Summary, error) {
	const q = `
SELECT
  o.order_id, o.customer_id, c.customer_name, o.staff_id, o.order_date,
  COALESCE(SUM(oi.quantity), 0) AS total_items,
  COALESCE(SUM(oi.quantity * p.list_price), 0) AS total_amount
FROM orders o
JOIN customers c ON c.customer_id = o.customer_id
LEFT JOIN order_items oi ON oi.order_id = o.order_id
LEFT JOIN products p ON p.product_id = oi.product_id
WHERE ($1::bigint IS NULL OR o.customer_id = $1::bigint)
GROUP BY o.order_id, o.customer_id, c.customer_name, o.staff_id, o.order_date
ORDER BY o.order_date DESC, o.order_id DESC`
	rows, err := r.run.QueryContext(ctx, q, dbcommon.ToNullInt64(customerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Summary{}
	for rows.Next() {
		var (
			s     orderdom.Summary
			staff sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &staff, &s.PlacedAt, &s.TotalItems, &s.TotalAmount); err != nil {
			return nil, err
		}
		s.StaffID = dbcommon.FromNullInt64(staff)
		s.PlacedAt = s.PlacedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// ========================
// helpers
// ========================

func (r *OrderRepositoryPG) getOne(ctx context.Context, q string, id int64) (orderdom.Order, error) {
	o, err := scanOrder(r.run.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func scanOrder(s dbcommon.RowScanner) (orderdom.Order, error) {
	var (
		o     orderdom.Order
		staff sql.NullInt64
	)
	if err := s.Scan(&o.ID, &o.CustomerID, &o.PlacedAt, &staff); err != nil {
		return orderdom.Order{}, err
	}
	o.StaffID = dbcommon.FromNullInt64(staff)
	o.PlacedAt = o.PlacedAt.UTC()
	return o, nil
}
