package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

// PostgreSQL implementation of product.Repository (catalog + stock ledger)
type ProductRepositoryPG struct {
	run dbcommon.Runner
}

func NewProductRepositoryPG(run dbcommon.Runner) *ProductRepositoryPG {
	return &ProductRepositoryPG{run: run}
}

var _ productdom.Repository = (*ProductRepositoryPG)(nil)

const productColumns = `product_id, product_name, list_price, quantity, album_cover_url`

// ========================
// Ledger
// ========================

func (r *ProductRepositoryPG) Snapshot(ctx context.Context, ids []int64) (map[int64]productdom.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE product_id = ANY($1)`
	return r.queryByIDs(ctx, q, ids)
}

// LockForUpdate locks rows in ascending id order so two transactions touching
// overlapping products always queue instead of deadlocking.
func (r *ProductRepositoryPG) LockForUpdate(ctx context.Context, ids []int64) (map[int64]productdom.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE product_id = ANY($1)
ORDER BY product_id
FOR UPDATE`
	return r.queryByIDs(ctx, q, ids)
}

func (r *ProductRepositoryPG) Debit(ctx context.Context, id int64, qty int) error {
	const q = `
UPDATE products
SET quantity = quantity - $1
WHERE product_id = $2 AND quantity >= $1`
	res, err := r.run.ExecContext(ctx, q, qty, id)
	if err != nil {
		if dbcommon.IsCheckViolation(err) {
			return productdom.ErrStockShortfall
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return productdom.ErrStockShortfall
}

func (r *ProductRepositoryPG) Credit(ctx context.Context, id int64, qty int) error {
	const q = `UPDATE products SET quantity = quantity + $1 WHERE product_id = $2`
	res, err := r.run.ExecContext(ctx, q, qty, id)
	if err != nil {
		return err
	}
	return requireAffected(res, productdom.ErrNotFound)
}

// ========================
// Catalog
// ========================

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id int64) (productdom.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	p, err := scanProduct(r.run.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) List(ctx context.Context) ([]productdom.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY product_id`
	rows, err := r.run.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []productdom.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepositoryPG) Create(ctx context.Context, p productdom.Product) error {
	const q = `
INSERT INTO products (` + productColumns + `)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.run.ExecContext(ctx, q, p.ID, p.Name, p.UnitPrice, p.Quantity, p.AlbumCoverURL)
	if dbcommon.IsUniqueViolation(err) {
		return productdom.ErrConflict
	}
	return err
}

func (r *ProductRepositoryPG) Delete(ctx context.Context, id int64) error {
	res, err := r.run.ExecContext(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		if dbcommon.IsForeignKeyViolation(err) {
			return productdom.ErrConflict
		}
		return err
	}
	return requireAffected(res, productdom.ErrNotFound)
}

func (r *ProductRepositoryPG) CountOrderLines(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.run.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id = $1`, id).Scan(&n)
	return n, err
}

// ========================
// helpers
// ========================

func (r *ProductRepositoryPG) queryByIDs(ctx context.Context, q string, ids []int64) (map[int64]productdom.Product, error) {
	out := make(map[int64]productdom.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.run.QueryContext(ctx, q, dbcommon.Int64s(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func scanProduct(s dbcommon.RowScanner) (productdom.Product, error) {
	var p productdom.Product
	if err := s.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.Quantity, &p.AlbumCoverURL); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

// requireAffected maps a zero-row update/delete to notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
