package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// Table は 1 テーブル分の DDL です。
type Table struct {
	Name string
	DDL  string
}

// Tables returns the schema in foreign-key order (referenced tables first).
func Tables() []Table {
	return []Table{
		{Name: "customers", DDL: customerdom.CustomersTableDDL},
		{Name: "staffs", DDL: staffdom.StaffsTableDDL},
		{Name: "products", DDL: productdom.ProductsTableDDL},
		{Name: "cart_items", DDL: cartdom.CartItemsTableDDL},
		{Name: "orders", DDL: orderdom.OrdersTableDDL},
		{Name: "order_items", DDL: orderdom.OrderItemsTableDDL},
	}
}

// Migrate applies every DDL in one transaction. All statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range Tables() {
		if _, err := tx.ExecContext(ctx, t.DDL); err != nil {
			return fmt.Errorf("migrate: %s: %w", t.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	log.Printf("[DB] schema ready (%d tables)", len(Tables()))
	return nil
}
