package cart

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("cart: not found")
	ErrConflict = errors.New("cart: conflict")
)

// Store is the per-customer cart table, bound to the caller's transaction.
type Store interface {
	// LockCustomer serializes cart mutations of one customer until the
	// transaction ends.
	LockCustomer(ctx context.Context, customerID int64) error

	// ListByCustomer returns lines ordered by line id (empty slice, never nil).
	ListByCustomer(ctx context.Context, customerID int64) ([]Line, error)

	// Find は (customer, product) の行を返します。無ければ ErrNotFound。
	Find(ctx context.Context, customerID, productID int64) (Line, error)

	Insert(ctx context.Context, l Line) error
	UpdateQuantity(ctx context.Context, customerID, lineID int64, qty int) error
	Delete(ctx context.Context, customerID, lineID int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) error
	DeleteByProduct(ctx context.Context, productID int64) (int, error)
}

// DDL reference (for schema alignment with migrations)
const CartItemsTableDDL = `
CREATE TABLE IF NOT EXISTS cart_items (
  customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
  item_id     BIGINT NOT NULL,
  product_id  BIGINT NOT NULL REFERENCES products(product_id),
  quantity    INTEGER NOT NULL CHECK (quantity > 0),
  PRIMARY KEY (customer_id, item_id),
  UNIQUE (customer_id, product_id)
);
`
