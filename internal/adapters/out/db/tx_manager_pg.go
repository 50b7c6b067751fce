package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// TxManagerPG は *sql.DB からトランザクションを開始し、
// そのトランザクションに束縛されたリポジトリ一式（usecase.Tx）を渡します。
type TxManagerPG struct {
	DB        *sql.DB
	Isolation sql.IsolationLevel
}

func NewTxManagerPG(db *sql.DB) *TxManagerPG {
	return &TxManagerPG{DB: db, Isolation: sql.LevelReadCommitted}
}

var _ usecase.TxManager = (*TxManagerPG)(nil)

// WithTx commits when fn returns nil and rolls back on error or panic.
func (m *TxManagerPG) WithTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	tx, err := m.DB.BeginTx(ctx, &sql.TxOptions{Isolation: m.Isolation})
	if err != nil {
		return fmt.Errorf("db: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newTxHandle(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("[db] WARN: rollback failed: %v (original error: %v)", rbErr, err)
		}
		if dbcommon.IsRetryableTx(err) {
			log.Printf("[db] WARN: retryable tx failure: %v", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if dbcommon.IsRetryableTx(err) {
			log.Printf("[db] WARN: retryable commit failure: %v", err)
		}
		return fmt.Errorf("db: commit: %w", err)
	}
	return nil
}

type txHandle struct {
	products  *ProductRepositoryPG
	carts     *CartRepositoryPG
	orders    *OrderRepositoryPG
	customers *CustomerRepositoryPG
	staffs    *StaffRepositoryPG
	ids       *IdentifierAllocatorPG
}

func newTxHandle(run dbcommon.Runner) *txHandle {
	return &txHandle{
		products:  NewProductRepositoryPG(run),
		carts:     NewCartRepositoryPG(run),
		orders:    NewOrderRepositoryPG(run),
		customers: NewCustomerRepositoryPG(run),
		staffs:    NewStaffRepositoryPG(run),
		ids:       NewIdentifierAllocatorPG(run),
	}
}

func (h *txHandle) Products() productdom.Repository   { return h.products }
func (h *txHandle) Carts() cartdom.Store              { return h.carts }
func (h *txHandle) Orders() orderdom.Store            { return h.orders }
func (h *txHandle) Customers() customerdom.Repository { return h.customers }
func (h *txHandle) Staffs() staffdom.Repository       { return h.staffs }
func (h *txHandle) IDs() identifier.Allocator         { return h.ids }
