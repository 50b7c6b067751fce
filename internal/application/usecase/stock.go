package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

// checkStock validates items in order against locked balances and reports the
// first shortfall. Nothing is written.
func checkStock(op string, items []orderdom.LineItem, stock map[int64]productdom.Product) error {
	for _, it := range items {
		p, ok := stock[it.ProductID]
		if !ok {
			return common.NotFound(op, fmt.Sprintf("product %d", it.ProductID))
		}
		if !p.CanSupply(it.Quantity) {
			return &common.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   it.Quantity,
				Available:   p.Quantity,
			}
		}
	}
	return nil
}

// writeLines inserts each line and debits its product. The conditional debit
// is the last guard: a zero-row update becomes InsufficientStock.
func writeLines(ctx context.Context, tx Tx, lines []orderdom.Line, stock map[int64]productdom.Product) error {
	for _, l := range lines {
		if err := tx.Orders().InsertLine(ctx, l); err != nil {
			return fmt.Errorf("insert order line %d/%d: %w", l.OrderID, l.LineID, err)
		}
		if err := tx.Products().Debit(ctx, l.ProductID, l.Quantity); err != nil {
			if errors.Is(err, productdom.ErrStockShortfall) {
				return shortfall(ctx, tx, l.ProductID, l.Quantity)
			}
			return fmt.Errorf("debit product %d: %w", l.ProductID, err)
		}
		if p, ok := stock[l.ProductID]; ok {
			p.Quantity -= l.Quantity
			stock[l.ProductID] = p
		}
	}
	return nil
}

// creditLines gives the stock of lines back to the ledger.
func creditLines(ctx context.Context, tx Tx, lines []orderdom.Line, stock map[int64]productdom.Product) error {
	for _, l := range lines {
		if err := tx.Products().Credit(ctx, l.ProductID, l.Quantity); err != nil {
			return fmt.Errorf("credit product %d: %w", l.ProductID, err)
		}
		if p, ok := stock[l.ProductID]; ok {
			p.Quantity += l.Quantity
			stock[l.ProductID] = p
		}
	}
	return nil
}

func shortfall(ctx context.Context, tx Tx, productID int64, requested int) error {
	snap, err := tx.Products().Snapshot(ctx, []int64{productID})
	if err != nil {
		return fmt.Errorf("re-read product %d after shortfall: %w", productID, err)
	}
	p := snap[productID]
	return &common.InsufficientStockError{
		ProductID:   productID,
		ProductName: p.Name,
		Requested:   requested,
		Available:   p.Quantity,
	}
}

// unionIDs returns the distinct ids of both lists in ascending order.
func unionIDs(a, b []int64) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, ids := range [][]int64{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lineProductIDs(lines []orderdom.Line) []int64 {
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.ProductID)
	}
	return out
}

func totalQuantity(lines []orderdom.Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
