package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

const catalogTag = "catalog_usecase"

// CatalogUsecase covers the staff panel operations that allocate identifiers
// or touch stock, carts and orders.
type CatalogUsecase struct {
	tm TxManager
	options
}

func NewCatalogUsecase(tm TxManager, opts ...Option) *CatalogUsecase {
	return &CatalogUsecase{tm: tm, options: buildOptions(opts)}
}

type RegisterPersonInput struct {
	Name  string
	Email string
	Phone string
}

func (u *CatalogUsecase) RegisterCustomer(ctx context.Context, in RegisterPersonInput) (out customerdom.Customer, err error) {
	const op = "customer.register"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		taken, err := tx.Customers().EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return common.Conflict(op, "email is already registered")
		}
		id, err := tx.IDs().Next(ctx, identifier.KindCustomer, 0)
		if err != nil {
			return err
		}
		c, err := customerdom.New(id, in.Name, email, in.Phone)
		if err != nil {
			return err
		}
		if err := tx.Customers().Create(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return customerdom.Customer{}, classify(catalogTag, op, err, "email=%s", email)
	}
	return out, nil
}

func (u *CatalogUsecase) RegisterStaff(ctx context.Context, in RegisterPersonInput) (out staffdom.Staff, err error) {
	const op = "staff.register"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		taken, err := tx.Staffs().EmailTaken(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return common.Conflict(op, "email is already registered")
		}
		id, err := tx.IDs().Next(ctx, identifier.KindStaff, 0)
		if err != nil {
			return err
		}
		s, err := staffdom.New(id, in.Name, email, in.Phone)
		if err != nil {
			return err
		}
		if err := tx.Staffs().Create(ctx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return staffdom.Staff{}, classify(catalogTag, op, err, "email=%s", email)
	}
	return out, nil
}

type AddProductInput struct {
	Name          string
	UnitPrice     int64
	Quantity      int
	AlbumCoverURL string
}

func (u *CatalogUsecase) AddProduct(ctx context.Context, in AddProductInput) (out productdom.Product, err error) {
	const op = "product.add"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		id, err := tx.IDs().Next(ctx, identifier.KindProduct, 0)
		if err != nil {
			return err
		}
		p, err := productdom.New(id, in.Name, in.UnitPrice, in.Quantity, in.AlbumCoverURL)
		if err != nil {
			return err
		}
		if err := tx.Products().Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return productdom.Product{}, classify(catalogTag, op, err, "name=%q", in.Name)
	}
	log.Printf("[%s] product added id=%d stock=%d", catalogTag, out.ID, out.Quantity)
	return out, nil
}

// RestockProduct applies a catalog correction of delta units (may be negative).
func (u *CatalogUsecase) RestockProduct(ctx context.Context, productID int64, delta int) (out productdom.Product, err error) {
	const op = "product.restock"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	if delta == 0 {
		return productdom.Product{}, common.InvalidArgument(op, "delta must not be zero")
	}

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		locked, err := tx.Products().LockForUpdate(ctx, []int64{productID})
		if err != nil {
			return err
		}
		p, ok := locked[productID]
		if !ok {
			return productdom.ErrNotFound
		}
		if p.Quantity+delta < 0 {
			return common.InvalidArgument(op, fmt.Sprintf("stock would become negative (current %d, delta %d)", p.Quantity, delta))
		}
		if delta > 0 {
			err = tx.Products().Credit(ctx, productID, delta)
		} else {
			err = tx.Products().Debit(ctx, productID, -delta)
		}
		if err != nil {
			return err
		}
		p.Quantity += delta
		out = p
		return nil
	})
	if err != nil {
		return productdom.Product{}, classify(catalogTag, op, err, "product=%d delta=%d", productID, delta)
	}
	if delta > 0 {
		u.metrics.AddStockMovement("restock", delta)
	} else {
		u.metrics.AddStockMovement("writeoff", -delta)
	}
	return out, nil
}

// DeleteProduct は注文明細から参照されている商品を削除しません。
// カート行は一緒に削除します。
func (u *CatalogUsecase) DeleteProduct(ctx context.Context, productID int64) (err error) {
	const op = "product.delete"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	var removedCartLines int
	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		locked, err := tx.Products().LockForUpdate(ctx, []int64{productID})
		if err != nil {
			return err
		}
		if _, ok := locked[productID]; !ok {
			return productdom.ErrNotFound
		}
		n, err := tx.Products().CountOrderLines(ctx, productID)
		if err != nil {
			return err
		}
		if n > 0 {
			return common.Conflict(op, fmt.Sprintf("product is referenced by %d order line(s)", n))
		}
		removedCartLines, err = tx.Carts().DeleteByProduct(ctx, productID)
		if err != nil {
			return err
		}
		return tx.Products().Delete(ctx, productID)
	})
	if err != nil {
		return classify(catalogTag, op, err, "product=%d", productID)
	}
	log.Printf("[%s] product deleted id=%d cart_lines_removed=%d", catalogTag, productID, removedCartLines)
	return nil
}

// DeleteCustomer refuses customers with orders and clears their cart.
func (u *CatalogUsecase) DeleteCustomer(ctx context.Context, customerID int64) (err error) {
	const op = "customer.delete"
	start := time.Now()
	defer func() { u.observe(op, start, err) }()

	err = u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := requireCustomer(ctx, tx, customerID); err != nil {
			return err
		}
		n, err := tx.Orders().CountByCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if n > 0 {
			return common.Conflict(op, fmt.Sprintf("customer has %d order(s)", n))
		}
		if err := tx.Carts().LockCustomer(ctx, customerID); err != nil {
			return err
		}
		if err := tx.Carts().DeleteByCustomer(ctx, customerID); err != nil {
			return err
		}
		return tx.Customers().Delete(ctx, customerID)
	})
	if err != nil {
		return classify(catalogTag, op, err, "customer=%d", customerID)
	}
	return nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (productdom.Product, error) {
	var p productdom.Product
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		p, err = tx.Products().GetByID(ctx, productID)
		return err
	})
	if err != nil {
		return productdom.Product{}, classify(catalogTag, "product.get", err, "product=%d", productID)
	}
	return p, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]productdom.Product, error) {
	var out []productdom.Product
	err := u.tm.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		out, err = tx.Products().List(ctx)
		return err
	})
	if err != nil {
		return nil, classify(catalogTag, "product.list", err, "")
	}
	return out, nil
}
