// Package memory is an in-process transactional store used for local runs
// (DB_DRIVER=memory) and for use case tests.
package memory

import (
	"context"
	"sort"
	"sync"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

type state struct {
	products  map[int64]productdom.Product
	customers map[int64]customerdom.Customer
	staffs    map[int64]staffdom.Staff
	carts     map[int64]map[int64]cartdom.Line // customer_id -> line_id -> line
	orders    map[int64]orderdom.Order
	lines     map[int64][]orderdom.Line // order_id -> lines
}

func newState() *state {
	return &state{
		products:  map[int64]productdom.Product{},
		customers: map[int64]customerdom.Customer{},
		staffs:    map[int64]staffdom.Staff{},
		carts:     map[int64]map[int64]cartdom.Line{},
		orders:    map[int64]orderdom.Order{},
		lines:     map[int64][]orderdom.Line{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.staffs {
		c.staffs[k] = v
	}
	for cid, m := range s.carts {
		cm := make(map[int64]cartdom.Line, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.carts[cid] = cm
	}
	for k, v := range s.orders {
		if v.StaffID != nil {
			sid := *v.StaffID
			v.StaffID = &sid
		}
		c.orders[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]orderdom.Line(nil), v...)
	}
	return c
}

// Store は単一ミューテックスで全トランザクションを直列化します。
// トランザクションは状態のコピー上で実行され、成功時のみ差し替えられます。
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

var _ usecase.TxManager = (*Store)(nil)

// WithTx runs fn against a private copy of the state and publishes the copy
// only when fn returns nil. Calls must not nest.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	tx := &memTx{st: work}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// ========================
// Read-only inspection (local runs and tests)
// ========================

func (s *Store) Product(id int64) (productdom.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.products[id]
	return p, ok
}

func (s *Store) CartLines(customerID int64) []cartdom.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCart(s.st.carts[customerID])
}

func (s *Store) Order(id int64) (orderdom.Order, []orderdom.Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[id]
	if !ok {
		return orderdom.Order{}, nil, false
	}
	return o, append([]orderdom.Line(nil), s.st.lines[id]...), true
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.orders)
}

// OrderedQuantity sums the quantity of productID over all order lines.
func (s *Store) OrderedQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ls := range s.st.lines {
		for _, l := range ls {
			if l.ProductID == productID {
				n += l.Quantity
			}
		}
	}
	return n
}

// ========================
// Tx handle
// ========================

type memTx struct {
	st *state
}

func (t *memTx) Products() productdom.Repository   { return productRepo{t.st} }
func (t *memTx) Carts() cartdom.Store              { return cartStore{t.st} }
func (t *memTx) Orders() orderdom.Store            { return orderStore{t.st} }
func (t *memTx) Customers() customerdom.Repository { return customerRepo{t.st} }
func (t *memTx) Staffs() staffdom.Repository       { return staffRepo{t.st} }
func (t *memTx) IDs() identifier.Allocator         { return allocator{t.st} }

func sortedCart(m map[int64]cartdom.Line) []cartdom.Line {
	out := make([]cartdom.Line, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineID < out[j].LineID })
	return out
}
