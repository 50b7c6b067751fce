package order

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)

// Store is bound to the caller's transaction.
type Store interface {
	// Lock は注文行を FOR UPDATE でロックして返します。無ければ ErrNotFound。
	Lock(ctx context.Context, id int64) (Order, error)
	GetByID(ctx context.Context, id int64) (Order, error)

	// Lines returns the order lines ordered by line id.
	Lines(ctx context.Context, id int64) ([]Line, error)

	Insert(ctx context.Context, o Order) error
	InsertLine(ctx context.Context, l Line) error
	UpdateCustomer(ctx context.Context, id, customerID int64) error
	DeleteLines(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error

	// ListSummaries returns newest first. customerID nil lists every order.
	ListSummaries(ctx context.Context, customerID *int64) ([]Summary, error)
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
}

// DDL reference (for schema alignment with migrations)
const OrdersTableDDL = `
CREATE TABLE IF NOT EXISTS orders (
  order_id    BIGINT PRIMARY KEY,
  customer_id BIGINT NOT NULL REFERENCES customers(customer_id),
  order_date  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  staff_id    BIGINT NULL REFERENCES staffs(staff_id)
);
CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
`

const OrderItemsTableDDL = `
CREATE TABLE IF NOT EXISTS order_items (
  order_id   BIGINT NOT NULL REFERENCES orders(order_id),
  item_id    BIGINT NOT NULL,
  product_id BIGINT NOT NULL REFERENCES products(product_id),
  quantity   INTEGER NOT NULL CHECK (quantity > 0),
  PRIMARY KEY (order_id, item_id),
  UNIQUE (order_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);
`
