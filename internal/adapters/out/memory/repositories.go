package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	cartdom "github.com/HsiaoHungKai/myDonut/internal/domain/cart"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
	staffdom "github.com/HsiaoHungKai/myDonut/internal/domain/staff"
)

// ========================
// products
// ========================

type productRepo struct{ st *state }

func (r productRepo) Snapshot(_ context.Context, ids []int64) (map[int64]productdom.Product, error) {
	out := make(map[int64]productdom.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// LockForUpdate is Snapshot: the store lock is already held for the whole tx.
func (r productRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]productdom.Product, error) {
	return r.Snapshot(ctx, ids)
}

func (r productRepo) Debit(_ context.Context, id int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("debit product %d: quantity %d: %w", id, qty, productdom.ErrInvalidStock)
	}
	p, ok := r.st.products[id]
	if !ok {
		return productdom.ErrNotFound
	}
	if p.Quantity < qty {
		return productdom.ErrStockShortfall
	}
	p.Quantity -= qty
	r.st.products[id] = p
	return nil
}

func (r productRepo) Credit(_ context.Context, id int64, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("credit product %d: quantity %d: %w", id, qty, productdom.ErrInvalidStock)
	}
	p, ok := r.st.products[id]
	if !ok {
		return productdom.ErrNotFound
	}
	p.Quantity += qty
	r.st.products[id] = p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (productdom.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r productRepo) List(_ context.Context) ([]productdom.Product, error) {
	out := make([]productdom.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r productRepo) Create(_ context.Context, p productdom.Product) error {
	if _, ok := r.st.products[p.ID]; ok {
		return productdom.ErrConflict
	}
	r.st.products[p.ID] = p
	return nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.products[id]; !ok {
		return productdom.ErrNotFound
	}
	delete(r.st.products, id)
	return nil
}

func (r productRepo) CountOrderLines(_ context.Context, id int64) (int, error) {
	n := 0
	for _, ls := range r.st.lines {
		for _, l := range ls {
			if l.ProductID == id {
				n++
			}
		}
	}
	return n, nil
}

// ========================
// cart_items
// ========================

type cartStore struct{ st *state }

func (s cartStore) LockCustomer(context.Context, int64) error { return nil }

func (s cartStore) ListByCustomer(_ context.Context, customerID int64) ([]cartdom.Line, error) {
	return sortedCart(s.st.carts[customerID]), nil
}

func (s cartStore) Find(_ context.Context, customerID, productID int64) (cartdom.Line, error) {
	if l, ok := cartdom.New(customerID, sortedCart(s.st.carts[customerID])).FindProduct(productID); ok {
		return l, nil
	}
	return cartdom.Line{}, cartdom.ErrNotFound
}

func (s cartStore) Insert(_ context.Context, l cartdom.Line) error {
	if _, ok := s.st.customers[l.CustomerID]; !ok {
		return customerdom.ErrNotFound
	}
	if _, ok := s.st.products[l.ProductID]; !ok {
		return productdom.ErrNotFound
	}
	m := s.st.carts[l.CustomerID]
	if m == nil {
		m = map[int64]cartdom.Line{}
		s.st.carts[l.CustomerID] = m
	}
	if _, ok := m[l.LineID]; ok {
		return cartdom.ErrConflict
	}
	for _, other := range m {
		if other.ProductID == l.ProductID {
			return cartdom.ErrConflict
		}
	}
	m[l.LineID] = l
	return nil
}

func (s cartStore) UpdateQuantity(_ context.Context, customerID, lineID int64, qty int) error {
	if qty <= 0 {
		return cartdom.ErrInvalidQuantity
	}
	l, ok := s.st.carts[customerID][lineID]
	if !ok {
		return cartdom.ErrNotFound
	}
	l.Quantity = qty
	s.st.carts[customerID][lineID] = l
	return nil
}

func (s cartStore) Delete(_ context.Context, customerID, lineID int64) error {
	if _, ok := s.st.carts[customerID][lineID]; !ok {
		return cartdom.ErrNotFound
	}
	delete(s.st.carts[customerID], lineID)
	return nil
}

func (s cartStore) DeleteByCustomer(_ context.Context, customerID int64) error {
	delete(s.st.carts, customerID)
	return nil
}

func (s cartStore) DeleteByProduct(_ context.Context, productID int64) (int, error) {
	n := 0
	for _, m := range s.st.carts {
		for id, l := range m {
			if l.ProductID == productID {
				delete(m, id)
				n++
			}
		}
	}
	return n, nil
}

// ========================
// orders / order_items
// ========================

type orderStore struct{ st *state }

func (s orderStore) Lock(ctx context.Context, id int64) (orderdom.Order, error) {
	return s.GetByID(ctx, id)
}

func (s orderStore) GetByID(_ context.Context, id int64) (orderdom.Order, error) {
	o, ok := s.st.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (s orderStore) Lines(_ context.Context, id int64) ([]orderdom.Line, error) {
	out := append([]orderdom.Line{}, s.st.lines[id]...)
	sort.Slice(out, func(i, j int) bool { return out[i].LineID < out[j].LineID })
	return out, nil
}

func (s orderStore) Insert(_ context.Context, o orderdom.Order) error {
	if _, ok := s.st.orders[o.ID]; ok {
		return orderdom.ErrConflict
	}
	if _, ok := s.st.customers[o.CustomerID]; !ok {
		return customerdom.ErrNotFound
	}
	if o.StaffID != nil {
		if _, ok := s.st.staffs[*o.StaffID]; !ok {
			return staffdom.ErrNotFound
		}
	}
	s.st.orders[o.ID] = o
	return nil
}

func (s orderStore) InsertLine(_ context.Context, l orderdom.Line) error {
	if _, ok := s.st.orders[l.OrderID]; !ok {
		return orderdom.ErrNotFound
	}
	if _, ok := s.st.products[l.ProductID]; !ok {
		return productdom.ErrNotFound
	}
	for _, other := range s.st.lines[l.OrderID] {
		if other.LineID == l.LineID || other.ProductID == l.ProductID {
			return orderdom.ErrConflict
		}
	}
	s.st.lines[l.OrderID] = append(s.st.lines[l.OrderID], l)
	return nil
}

func (s orderStore) UpdateCustomer(_ context.Context, id, customerID int64) error {
	o, ok := s.st.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	if _, ok := s.st.customers[customerID]; !ok {
		return customerdom.ErrNotFound
	}
	o.CustomerID = customerID
	s.st.orders[id] = o
	return nil
}

func (s orderStore) DeleteLines(_ context.Context, id int64) (int, error) {
	n := len(s.st.lines[id])
	delete(s.st.lines, id)
	return n, nil
}

func (s orderStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.st.orders[id]; !ok {
		return orderdom.ErrNotFound
	}
	if len(s.st.lines[id]) > 0 {
		return fmt.Errorf("order %d still has lines: %w", id, orderdom.ErrConflict)
	}
	delete(s.st.orders, id)
	return nil
}

func (s orderStore) ListSummaries(_ context.Context, customerID *int64) ([]orderdom.Summary, error) {
	out := make([]orderdom.Summary, 0, len(s.st.orders))
	for id, o := range s.st.orders {
		if customerID != nil && o.CustomerID != *customerID {
			continue
		}
		sum := orderdom.Summary{
			ID:           id,
			CustomerID:   o.CustomerID,
			CustomerName: s.st.customers[o.CustomerID].Name,
			StaffID:      o.StaffID,
			PlacedAt:     o.PlacedAt,
		}
		for _, l := range s.st.lines[id] {
			sum.TotalItems += l.Quantity
			sum.TotalAmount += s.st.products[l.ProductID].UnitPrice * int64(l.Quantity)
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].PlacedAt.After(out[j].PlacedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s orderStore) CountByCustomer(_ context.Context, customerID int64) (int, error) {
	n := 0
	for _, o := range s.st.orders {
		if o.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// ========================
// customers / staffs
// ========================

type customerRepo struct{ st *state }

func (r customerRepo) GetByID(_ context.Context, id int64) (customerdom.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return customerdom.Customer{}, customerdom.ErrNotFound
	}
	return c, nil
}

func (r customerRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.st.customers[id]
	return ok, nil
}

func (r customerRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range r.st.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r customerRepo) Create(ctx context.Context, c customerdom.Customer) error {
	if _, ok := r.st.customers[c.ID]; ok {
		return customerdom.ErrConflict
	}
	if taken, _ := r.EmailTaken(ctx, c.Email); taken {
		return customerdom.ErrConflict
	}
	r.st.customers[c.ID] = c
	return nil
}

func (r customerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.customers[id]; !ok {
		return customerdom.ErrNotFound
	}
	delete(r.st.customers, id)
	return nil
}

type staffRepo struct{ st *state }

func (r staffRepo) GetByID(_ context.Context, id int64) (staffdom.Staff, error) {
	s, ok := r.st.staffs[id]
	if !ok {
		return staffdom.Staff{}, staffdom.ErrNotFound
	}
	return s, nil
}

func (r staffRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.st.staffs[id]
	return ok, nil
}

func (r staffRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, s := range r.st.staffs {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r staffRepo) Create(ctx context.Context, s staffdom.Staff) error {
	if _, ok := r.st.staffs[s.ID]; ok {
		return staffdom.ErrConflict
	}
	if taken, _ := r.EmailTaken(ctx, s.Email); taken {
		return staffdom.ErrConflict
	}
	r.st.staffs[s.ID] = s
	return nil
}

// ========================
// identifier allocator
// ========================

type allocator struct{ st *state }

func (a allocator) Next(_ context.Context, kind identifier.Kind, scope int64) (int64, error) {
	var hi int64
	switch kind {
	case identifier.KindCustomer:
		for id := range a.st.customers {
			hi = max(hi, id)
		}
	case identifier.KindStaff:
		for id := range a.st.staffs {
			hi = max(hi, id)
		}
	case identifier.KindProduct:
		for id := range a.st.products {
			hi = max(hi, id)
		}
	case identifier.KindOrder:
		for id := range a.st.orders {
			hi = max(hi, id)
		}
	case identifier.KindCartLine:
		for id := range a.st.carts[scope] {
			hi = max(hi, id)
		}
	default:
		return 0, identifier.ErrUnknownKind
	}
	return hi + 1, nil
}
