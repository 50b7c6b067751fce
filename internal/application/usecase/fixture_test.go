package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/out/memory"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	customerdom "github.com/HsiaoHungKai/myDonut/internal/domain/customer"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	mu     sync.Mutex
	events []usecase.OrderEvent
	err    error
}

func (s *recordingSink) Publish(_ context.Context, ev usecase.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) types() []usecase.OrderEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]usecase.OrderEventType, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	moved    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[string]int{}, moved: map[string]int{}}
}

func (m *recordingMetrics) ObserveOperation(op, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[op+"/"+outcome]++
}

func (m *recordingMetrics) AddStockMovement(direction string, units int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moved[direction] += units
}

type fixture struct {
	store   *memory.Store
	orders  *usecase.OrderUsecase
	carts   *usecase.CartUsecase
	catalog *usecase.CatalogUsecase
	sink    *recordingSink
	metrics *recordingMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, nil)
}

// newFixtureWith lets a test wrap the transaction manager used by the order
// and cart use cases.
func newFixtureWith(t *testing.T, wrap func(usecase.TxManager) usecase.TxManager) *fixture {
	t.Helper()
	store := memory.NewStore()
	sink := &recordingSink{}
	metrics := newRecordingMetrics()

	var tm usecase.TxManager = store
	if wrap != nil {
		tm = wrap(store)
	}
	opts := []usecase.Option{
		usecase.WithClock(fixedClock{testNow}),
		usecase.WithMetrics(metrics),
		usecase.WithEventSinks(sink),
	}
	return &fixture{
		store:   store,
		orders:  usecase.NewOrderUsecase(tm, opts...),
		carts:   usecase.NewCartUsecase(tm, opts...),
		catalog: usecase.NewCatalogUsecase(store, opts...),
		sink:    sink,
		metrics: metrics,
	}
}

func (f *fixture) product(t *testing.T, name string, price int64, stock int) productdom.Product {
	t.Helper()
	p, err := f.catalog.AddProduct(context.Background(), usecase.AddProductInput{Name: name, UnitPrice: price, Quantity: stock})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, name string) customerdom.Customer {
	t.Helper()
	c, err := f.catalog.RegisterCustomer(context.Background(), usecase.RegisterPersonInput{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) addToCart(t *testing.T, customerID, productID int64, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		_, err := f.carts.AddToCart(context.Background(), customerID, productID)
		require.NoError(t, err, fmt.Sprintf("add #%d", i+1))
	}
}

func (f *fixture) stock(t *testing.T, productID int64) int {
	t.Helper()
	p, ok := f.store.Product(productID)
	require.True(t, ok, "product %d missing", productID)
	return p.Quantity
}

func (f *fixture) placeExplicit(t *testing.T, customerID int64, items ...orderdom.LineItem) orderdom.Detail {
	t.Helper()
	d, err := f.orders.PlaceOrder(context.Background(), usecase.PlaceOrderInput{CustomerID: customerID, Items: items})
	require.NoError(t, err)
	return d
}

func item(productID int64, qty int) orderdom.LineItem {
	return orderdom.LineItem{ProductID: productID, Quantity: qty}
}

// ------------------------------------------------------------
// fault injection
// ------------------------------------------------------------

var errInjected = errors.New("injected storage failure")

// failingTxManager fails the n-th InsertLine of every transaction.
type failingTxManager struct {
	inner usecase.TxManager
	n     int
}

func (m failingTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Tx) error) error {
	return m.inner.WithTx(ctx, func(ctx context.Context, tx usecase.Tx) error {
		return fn(ctx, &failingTx{Tx: tx, n: m.n})
	})
}

type failingTx struct {
	usecase.Tx
	n     int
	calls int
}

func (t *failingTx) Orders() orderdom.Store {
	return &failingOrders{Store: t.Tx.Orders(), tx: t}
}

type failingOrders struct {
	orderdom.Store
	tx *failingTx
}

func (o *failingOrders) InsertLine(ctx context.Context, l orderdom.Line) error {
	o.tx.calls++
	if o.tx.calls == o.tx.n {
		return errInjected
	}
	return o.Store.InsertLine(ctx, l)
}
