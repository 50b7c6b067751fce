package order

import (
	"errors"
	"time"

	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

var (
	ErrInvalidOrder    = errors.New("order: invalid")
	ErrInvalidItems    = errors.New("order: invalid items")
	ErrInvalidQuantity = errors.New("order: quantity must be positive")
)

// Order は確定済みの注文ヘッダです。StaffID はスタッフ代理注文の場合のみ。
type Order struct {
	ID         int64
	CustomerID int64
	StaffID    *int64
	PlacedAt   time.Time
}

func New(id, customerID int64, staffID *int64, placedAt time.Time) (Order, error) {
	if id <= 0 || customerID <= 0 {
		return Order{}, ErrInvalidOrder
	}
	if staffID != nil && *staffID <= 0 {
		return Order{}, ErrInvalidOrder
	}
	return Order{
		ID:         id,
		CustomerID: customerID,
		StaffID:    staffID,
		PlacedAt:   placedAt.UTC(),
	}, nil
}

// Line is a stock-debited order row. LineID starts at 1 within an order.
type Line struct {
	OrderID   int64
	LineID    int64
	ProductID int64
	Quantity  int
}

// LineItem is a requested (product, quantity) pair before it becomes a Line.
type LineItem struct {
	ProductID int64
	Quantity  int
}

// NormalizeItems merges duplicate products (first appearance keeps its
// position) and rejects non-positive quantities.
func NormalizeItems(items []LineItem) ([]LineItem, error) {
	out := make([]LineItem, 0, len(items))
	pos := make(map[int64]int, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			return nil, ErrInvalidItems
		}
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if i, ok := pos[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out, nil
}

// BuildLines assigns line ids 1..n in item order.
func BuildLines(orderID int64, items []LineItem) []Line {
	out := make([]Line, 0, len(items))
	for i, it := range items {
		out = append(out, Line{
			OrderID:   orderID,
			LineID:    int64(i + 1),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return out
}

// ProductIDs returns the product ids of items in order.
func ProductIDs(items []LineItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ProductID)
	}
	return out
}

// ========================
// Read projections
// ========================

type DetailLine struct {
	LineID      int64
	ProductID   int64
	ProductName string
	UnitPrice   int64
	Quantity    int
	LineTotal   int64
}

// Detail is the confirmation/history view of one order. Totals are derived,
// never stored.
type Detail struct {
	Order
	Lines       []DetailLine
	TotalItems  int
	TotalAmount int64
}

func NewDetail(o Order, lines []Line, products map[int64]productdom.Product) Detail {
	d := Detail{Order: o, Lines: make([]DetailLine, 0, len(lines))}
	for _, l := range lines {
		p := products[l.ProductID]
		dl := DetailLine{
			LineID:      l.LineID,
			ProductID:   l.ProductID,
			ProductName: p.Name,
			UnitPrice:   p.UnitPrice,
			Quantity:    l.Quantity,
			LineTotal:   p.UnitPrice * int64(l.Quantity),
		}
		d.Lines = append(d.Lines, dl)
		d.TotalItems += dl.Quantity
		d.TotalAmount += dl.LineTotal
	}
	return d
}

// Summary is one row of an order list.
type Summary struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	StaffID      *int64
	PlacedAt     time.Time
	TotalItems   int
	TotalAmount  int64
}
