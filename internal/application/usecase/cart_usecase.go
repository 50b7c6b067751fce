// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"fmt"
	"time"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

const cartTag = "cart_usecase"

// CartUsecase はカートの追加・数量変更・削除・参照を扱います。
// カートは在庫を予約しません。在庫数は上限チェックにのみ使います。
type CartUsecase struct {
	tm TxManager
	options
}

func NewCartUsecase(tm TxManager, opts ...Option) *CartUsecase {
	return &CartUsecase{tm: tm, options: buildOptions(opts)}
}

// CartViewLine is one cart line joined with its product.
type CartViewLine struct {
	LineID      int64
	ProductID   int64
	ProductName string
	UnitPrice   int64
	Quantity    int
	Available   int
	LineTotal   int64
}

type CartView struct {
	CustomerID  int64
	Lines       []CartViewLine
	TotalItems  int
	TotalAmount int64
}

// AddToCart adds one unit of productID. A new line gets quantity 1, an
// existing line is incremented unless that would exceed the current stock.
func (u *CartUsecase) AddToCart(ctx context.Context, customerID, productID int64) (line cartdom.Line, err error) {
	const op = "cart.add"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if customerID <= 0 || productID <= 0 {
		return cartdom.Line{}, common.InvalidArgument(op, "customer id and product id are required")
	}

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := requireCustomer(ctx, tx, customerID); err != nil {
			return err
		}
		if err := tx.Carts().LockCustomer(ctx, customerID); err != nil {
			return err
		}

		p, err := snapshotOne(ctx, tx, productID)
		if err != nil {
			return err
		}
		if !p.InStock() {
			return &common.OutOfStockError{ProductID: p.ID, ProductName: p.Name}
		}

		existing, err := tx.Carts().Find(ctx, customerID, productID)
		switch {
		case err == nil:
			next := existing.Quantity + 1
			if next > p.Quantity {
				return &common.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Requested: next, Available: p.Quantity}
			}
			if err := tx.Carts().UpdateQuantity(ctx, customerID, existing.LineID, next); err != nil {
				return err
			}
			existing.Quantity = next
			line = existing
			return nil
		case !isNotFound(err):
			return err
		}

		lineID, err := tx.IDs().Next(ctx, identifier.KindCartLine, customerID)
		if err != nil {
			return err
		}
		l, err := cartdom.NewLine(customerID, lineID, productID, 1)
		if err != nil {
			return err
		}
		if err := tx.Carts().Insert(ctx, l); err != nil {
			return err
		}
		line = l
		return nil
	})
	if err != nil {
		return cartdom.Line{}, classify(cartTag, op, err, "customer=%d product=%d", customerID, productID)
	}
	return line, nil
}

// SetQuantity sets a line's quantity. Zero removes the line.
func (u *CartUsecase) SetQuantity(ctx context.Context, customerID, lineID int64, qty int) (err error) {
	const op = "cart.set_quantity"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if customerID <= 0 || lineID <= 0 {
		return common.InvalidArgument(op, "customer id and line id are required")
	}
	if qty < 0 {
		return common.InvalidArgument(op, "quantity must not be negative")
	}

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		l, err := lockedLine(ctx, tx, customerID, lineID)
		if err != nil {
			return err
		}
		if qty == 0 {
			return tx.Carts().Delete(ctx, customerID, lineID)
		}
		p, err := snapshotOne(ctx, tx, l.ProductID)
		if err != nil {
			return err
		}
		if qty > p.Quantity {
			return &common.InsufficientStockError{ProductID: p.ID, ProductName: p.Name, Requested: qty, Available: p.Quantity}
		}
		return tx.Carts().UpdateQuantity(ctx, customerID, lineID, qty)
	})
	if err != nil {
		return classify(cartTag, op, err, "customer=%d line=%d qty=%d", customerID, lineID, qty)
	}
	return nil
}

func (u *CartUsecase) RemoveLine(ctx context.Context, customerID, lineID int64) (err error) {
	const op = "cart.remove"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := lockedLine(ctx, tx, customerID, lineID); err != nil {
			return err
		}
		return tx.Carts().Delete(ctx, customerID, lineID)
	})
	if err != nil {
		return classify(cartTag, op, err, "customer=%d line=%d", customerID, lineID)
	}
	return nil
}

// GetCart returns the cart joined with current product data.
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartView, error) {
	const op = "cart.get"
	view := CartView{CustomerID: customerID, Lines: []CartViewLine{}}
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := requireCustomer(ctx, tx, customerID); err != nil {
			return err
		}
		lines, err := tx.Carts().ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		c := cartdom.New(customerID, lines)
		products, err := tx.Products().Snapshot(ctx, c.ProductIDs())
		if err != nil {
			return err
		}
		for _, l := range c.Lines {
			p := products[l.ProductID]
			vl := CartViewLine{
				LineID:      l.LineID,
				ProductID:   l.ProductID,
				ProductName: p.Name,
				UnitPrice:   p.UnitPrice,
				Quantity:    l.Quantity,
				Available:   p.Quantity,
				LineTotal:   p.UnitPrice * int64(l.Quantity),
			}
			view.Lines = append(view.Lines, vl)
			view.TotalAmount += vl.LineTotal
		}
		view.TotalItems = c.TotalQuantity()
		return nil
	})
	if err != nil {
		return CartView{}, classify(cartTag, op, err, "customer=%d", customerID)
	}
	return view, nil
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

func requireCustomer(ctx context.Context, tx Tx, customerID int64) error {
	ok, err := tx.Customers().Exists(ctx, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return customerdom.ErrNotFound
	}
	return nil
}

func snapshotOne(ctx context.Context, tx Tx, productID int64) (productdom.Product, error) {
	snap, err := tx.Products().Snapshot(ctx, []int64{productID})
	if err != nil {
		return productdom.Product{}, err
	}
	p, ok := snap[productID]
	if !ok {
		return productdom.Product{}, fmt.Errorf("product %d: %w", productID, productdom.ErrNotFound)
	}
	return p, nil
}

func lockedLine(ctx context.Context, tx Tx, customerID, lineID int64) (cartdom.Line, error) {
	if err := tx.Carts().LockCustomer(ctx, customerID); err != nil {
		return cartdom.Line{}, err
	}
	lines, err := tx.Carts().ListByCustomer(ctx, customerID)
	if err != nil {
		return cartdom.Line{}, err
	}
	l, ok := cartdom.New(customerID, lines).FindLine(lineID)
	if !ok {
		return cartdom.Line{}, cartdom.ErrNotFound
	}
	return l, nil
}
