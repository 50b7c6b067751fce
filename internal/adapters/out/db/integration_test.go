package db

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
	orderdom "github.com/HsiaoHungKai/myDonut/internal/domain/order"
	"github.com/HsiaoHungKai/myDonut/internal/infra/database"
)

// startPostgres は使い捨ての PostgreSQL コンテナを起動し、スキーマ適用済みの接続を返します。
func startPostgres(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "donut",
				"POSTGRES_PASSWORD": "donut",
				"POSTGRES_DB":       "donut",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)

	conn, err := database.NewConnection(ctx, database.Options{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Port(),
		User:     "donut",
		Password: "donut",
		Name:     "donut",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, database.Migrate(ctx, conn.Client))
	return conn
}

type pgFixture struct {
	db      *database.DB
	catalog *usecase.CatalogUsecase
	carts   *usecase.CartUsecase
	orders  *usecase.OrderUsecase
}

func newPGFixture(t *testing.T) *pgFixture {
	conn := startPostgres(t)
	tm := NewTxManagerPG(conn.Client)
	return &pgFixture{
		db:      conn,
		catalog: usecase.NewCatalogUsecase(tm),
		carts:   usecase.NewCartUsecase(tm),
		orders:  usecase.NewOrderUsecase(tm),
	}
}

func (f *pgFixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.catalog.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func TestPostgres_CartCheckoutEditDelete(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	a, err := f.catalog.AddProduct(ctx, usecase.AddProductInput{Name: "Kind of Blue", UnitPrice: 1999, Quantity: 5})
	require.NoError(t, err)
	b, err := f.catalog.AddProduct(ctx, usecase.AddProductInput{Name: "Blue Train", UnitPrice: 1500, Quantity: 1})
	require.NoError(t, err)
	cust, err := f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Miles Davis", Email: "miles@example.com"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.carts.AddToCart(ctx, cust.ID, a.ID)
		require.NoError(t, err)
	}
	line, err := f.carts.AddToCart(ctx, cust.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), line.LineID)

	d, err := f.orders.PlaceOrder(ctx, usecase.PlaceOrderInput{CustomerID: cust.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.ID)
	assert.Equal(t, 3, d.TotalItems)
	assert.Equal(t, 3, f.stock(t, a.ID))
	assert.Equal(t, 0, f.stock(t, b.ID))

	view, err := f.carts.GetCart(ctx, cust.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	// b is sold out, but the order's own unit is credited back before validation
	_, err = f.orders.EditOrder(ctx, usecase.EditOrderInput{
		OrderID:    d.ID,
		CustomerID: cust.ID,
		Items:      []orderdom.LineItem{{ProductID: a.ID, Quantity: 4}, {ProductID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.stock(t, a.ID))
	assert.Equal(t, 0, f.stock(t, b.ID))

	_, err = f.orders.EditOrder(ctx, usecase.EditOrderInput{
		OrderID:    d.ID,
		CustomerID: cust.ID,
		Items:      []orderdom.LineItem{{ProductID: b.ID, Quantity: 2}},
	})
	var ise *common.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 1, ise.Available)
	assert.Equal(t, 1, f.stock(t, a.ID), "failed edit leaves stock untouched")

	require.NoError(t, f.orders.DeleteOrder(ctx, d.ID))
	assert.Equal(t, 5, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))

	_, err = f.orders.GetOrder(ctx, d.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestPostgres_ConcurrentPlacementsNeverOversell(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	const (
		stock   = 5
		buyers  = 20
		perBuy  = 1
		product = "A Love Supreme"
	)
	p, err := f.catalog.AddProduct(ctx, usecase.AddProductInput{Name: product, UnitPrice: 3000, Quantity: stock})
	require.NoError(t, err)

	ids := make([]int64, buyers)
	for i := range ids {
		c, err := f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{
			Name:  fmt.Sprintf("buyer %d", i),
			Email: fmt.Sprintf("buyer%d@example.com", i),
		})
		require.NoError(t, err)
		ids[i] = c.ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   []int64
		rejected int
		other    []error
	)
	for _, cid := range ids {
		wg.Add(1)
		go func(cid int64) {
			defer wg.Done()
			d, err := f.orders.PlaceOrder(ctx, usecase.PlaceOrderInput{
				CustomerID: cid,
				Items:      []orderdom.LineItem{{ProductID: p.ID, Quantity: perBuy}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed = append(placed, d.ID)
			case common.IsKind(err, common.KindInsufficientStock):
				rejected++
			default:
				other = append(other, err)
			}
		}(cid)
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Len(t, placed, stock)
	assert.Equal(t, buyers-stock, rejected)
	assert.Equal(t, 0, f.stock(t, p.ID))

	seen := map[int64]bool{}
	for _, id := range placed {
		assert.False(t, seen[id], "order id %d allocated twice", id)
		seen[id] = true
	}

	var ordered int
	require.NoError(t, f.db.Client.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE product_id = $1`, p.ID).Scan(&ordered))
	assert.Equal(t, stock, ordered)
}

func TestPostgres_ConcurrentAddToCartKeepsLineIDsUnique(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	cust, err := f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Herbie Hancock", Email: "herbie@example.com"})
	require.NoError(t, err)

	const n = 8
	products := make([]int64, n)
	for i := range products {
		p, err := f.catalog.AddProduct(ctx, usecase.AddProductInput{Name: fmt.Sprintf("album %d", i), UnitPrice: 1000, Quantity: 3})
		require.NoError(t, err)
		products[i] = p.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, pid := range products {
		wg.Add(1)
		go func(pid int64) {
			defer wg.Done()
			_, err := f.carts.AddToCart(ctx, cust.ID, pid)
			errs <- err
		}(pid)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	view, err := f.carts.GetCart(ctx, cust.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, n)
	for i, l := range view.Lines {
		assert.Equal(t, int64(i+1), l.LineID)
	}
}
