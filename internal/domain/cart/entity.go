package cart

import (
	"errors"
	"sort"
)

var (
	ErrInvalidCart     = errors.New("cart: invalid")
	ErrInvalidQuantity = errors.New("cart: invalid quantity")
)

// Line is one staged (customer, product) purchase intent.
// LineID is a per-customer sequence, not globally unique.
type Line struct {
	CustomerID int64
	LineID     int64
	ProductID  int64
	Quantity   int
}

func (l Line) validate() error {
	if l.CustomerID <= 0 || l.LineID <= 0 || l.ProductID <= 0 {
		return ErrInvalidCart
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

func NewLine(customerID, lineID, productID int64, qty int) (Line, error) {
	l := Line{CustomerID: customerID, LineID: lineID, ProductID: productID, Quantity: qty}
	if err := l.validate(); err != nil {
		return Line{}, err
	}
	return l, nil
}

// Cart は顧客ごとのカート行の集合です（line_id 昇順）。
type Cart struct {
	CustomerID int64
	Lines      []Line
}

func New(customerID int64, lines []Line) Cart {
	out := cloneLines(lines)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineID < out[j].LineID })
	return Cart{CustomerID: customerID, Lines: out}
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// FindProduct returns the line holding productID.
func (c Cart) FindProduct(productID int64) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

func (c Cart) FindLine(lineID int64) (Line, bool) {
	for _, l := range c.Lines {
		if l.LineID == lineID {
			return l, true
		}
	}
	return Line{}, false
}

// ProductIDs returns the distinct product ids in line order.
func (c Cart) ProductIDs() []int64 {
	out := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		out = append(out, l.ProductID)
	}
	return out
}

func (c Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func cloneLines(in []Line) []Line {
	if len(in) == 0 {
		return []Line{}
	}
	out := make([]Line, len(in))
	copy(out, in)
	return out
}
