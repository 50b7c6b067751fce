package product

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("product: not found")
	ErrConflict = errors.New("product: conflict")

	// ErrStockShortfall is returned by Ledger.Debit when the conditional
	// update matched no row (balance lower than the requested quantity).
	ErrStockShortfall = errors.New("product: stock shortfall")
)

// Ledger は在庫数の唯一の更新経路です。呼び出し側のトランザクション内で実行されます。
type Ledger interface {
	// Snapshot は検証用の読み取りのみ（ロックしない）。存在しない ID は結果に含まれません。
	Snapshot(ctx context.Context, ids []int64) (map[int64]Product, error)

	// LockForUpdate は ID 昇順で行ロックを取得し、その時点の値を返します。
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]Product, error)

	// Debit は quantity >= qty の場合のみ減算します。満たさなければ ErrStockShortfall。
	Debit(ctx context.Context, id int64, qty int) error

	// Credit は無条件に加算します。
	Credit(ctx context.Context, id int64, qty int) error
}

// Catalog covers the catalog edits that couple to stock and orders.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (Product, error)
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
	CountOrderLines(ctx context.Context, id int64) (int, error)
}

type Repository interface {
	Ledger
	Catalog
}
