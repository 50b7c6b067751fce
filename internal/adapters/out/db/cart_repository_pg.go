package db

import (
	"context"
	"database/sql"
	"errors"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
)

// PostgreSQL implementation of cart.Store (table cart_items)
type CartRepositoryPG struct {
	run dbcommon.Runner
}

func NewCartRepositoryPG(run dbcommon.Runner) *CartRepositoryPG {
	return &CartRepositoryPG{run: run}
}

var _ cartdom.Store = (*CartRepositoryPG)(nil)

func (r *CartRepositoryPG) LockCustomer(ctx context.Context, customerID int64) error {
	return advisoryXactLock(ctx, r.run, cartLockNamespace, customerID)
}

func (r *CartRepositoryPG) ListByCustomer(ctx context.Context, customerID int64) ([]cartdom.Line, error) {
	const q = `
SELECT customer_id, item_id, product_id, quantity
FROM cart_items
WHERE customer_id = $1
ORDER BY item_id`
	rows, err := r.run.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []cartdom.Line{}
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *CartRepositoryPG) Find(ctx context.Context, customerID, productID int64) (cartdom.Line, error) {
	const q = `
SELECT customer_id, item_id, product_id, quantity
FROM cart_items
WHERE customer_id = $1 AND product_id = $2`
	l, err := scanCartLine(r.run.QueryRowContext(ctx, q, customerID, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cartdom.Line{}, cartdom.ErrNotFound
		}
		return cartdom.Line{}, err
	}
	return l, nil
}

func (r *CartRepositoryPG) Insert(ctx context.Context, l cartdom.Line) error {
	const q = `
INSERT INTO cart_items (customer_id, item_id, product_id, quantity)
VALUES ($1, $2, $3, $4)`
	_, err := r.run.ExecContext(ctx, q, l.CustomerID, l.LineID, l.ProductID, l.Quantity)
	if dbcommon.IsUniqueViolation(err) || dbcommon.IsForeignKeyViolation(err) {
		return cartdom.ErrConflict
	}
	return err
}

func (r *CartRepositoryPG) UpdateQuantity(ctx context.Context, customerID, lineID int64, qty int) error {
	if qty <= 0 {
		return cartdom.ErrInvalidQuantity
	}
	res, err := r.run.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE customer_id = $2 AND item_id = $3`,
		qty, customerID, lineID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, cartdom.ErrNotFound)
}

func (r *CartRepositoryPG) Delete(ctx context.Context, customerID, lineID int64) error {
	res, err := r.run.ExecContext(ctx, `DELETE FROM cart_items WHERE customer_id = $1 AND item_id = $2`, customerID, lineID)
	if err != nil {
		return err
	}
	return requireAffected(res, cartdom.ErrNotFound)
}

func (r *CartRepositoryPG) DeleteByCustomer(ctx context.Context, customerID int64) error {
	_, err := r.run.ExecContext(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	return err
}

func (r *CartRepositoryPG) DeleteByProduct(ctx context.Context, productID int64) (int, error) {
	res, err := r.run.ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = $1`, productID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func scanCartLine(s dbcommon.RowScanner) (cartdom.Line, error) {
	var l cartdom.Line
	if err := s.Scan(&l.CustomerID, &l.LineID, &l.ProductID, &l.Quantity); err != nil {
		return cartdom.Line{}, err
	}
	return l, nil
}
