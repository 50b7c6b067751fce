package db

import (
	"context"
	"fmt"

	dbcommon "github.com/HsiaoHungKai/myDonut/internal/adapters/out/db/common"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
)

// Advisory lock namespaces. Identifier kinds use their own numeric value (1..5).
const (
	cartLockNamespace int32 = 100
)

type allocTarget struct {
	table       string
	column      string
	scopeColumn string
}

var allocTargets = map[identifier.Kind]allocTarget{
	identifier.KindCustomer: {table: "customers", column: "customer_id"},
	identifier.KindStaff:    {table: "staffs", column: "staff_id"},
	identifier.KindProduct:  {table: "products", column: "product_id"},
	identifier.KindOrder:    {table: "orders", column: "order_id"},
	identifier.KindCartLine: {table: "cart_items", column: "item_id", scopeColumn: "customer_id"},
}

// IdentifierAllocatorPG は MAX+1 採番を pg_advisory_xact_lock で直列化します。
// ロックはトランザクション終了まで保持されるため、採番値の INSERT がコミットされるまで
// 同じ種別の採番は待たされます。
type IdentifierAllocatorPG struct {
	run dbcommon.Runner
}

func NewIdentifierAllocatorPG(run dbcommon.Runner) *IdentifierAllocatorPG {
	return &IdentifierAllocatorPG{run: run}
}

var _ identifier.Allocator = (*IdentifierAllocatorPG)(nil)

func (a *IdentifierAllocatorPG) Next(ctx context.Context, kind identifier.Kind, scope int64) (int64, error) {
	t, ok := allocTargets[kind]
	if !ok {
		return 0, identifier.ErrUnknownKind
	}
	if !kind.Scoped() {
		scope = 0
	}

	if err := advisoryXactLock(ctx, a.run, int32(kind), scope); err != nil {
		return 0, fmt.Errorf("identifier: lock %s: %w", kind, err)
	}

	q := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s`, t.column, t.table)
	args := []any{}
	if t.scopeColumn != "" {
		q += fmt.Sprintf(` WHERE %s = $1`, t.scopeColumn)
		args = append(args, scope)
	}

	var next int64
	if err := a.run.QueryRowContext(ctx, q, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("identifier: next %s: %w", kind, err)
	}
	return next, nil
}

// advisoryXactLock takes a transaction-scoped advisory lock on (ns, scope).
// Scopes wider than int4 are folded; a collision only adds serialization.
func advisoryXactLock(ctx context.Context, run dbcommon.Runner, ns int32, scope int64) error {
	_, err := run.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::int4, $2::int4)`, ns, foldScope(scope))
	return err
}

func foldScope(scope int64) int32 {
	return int32(scope ^ (scope >> 32))
}
