package mallHandler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/dto"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/middleware"
	"github.com/HsiaoHungKai/myDonut/internal/adapters/out/memory"
	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
)

type env struct {
	srv     *httptest.Server
	store   *memory.Store
	catalog *usecase.CatalogUsecase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	r := chi.NewRouter()
	Mount(r,
		NewCartHandler(usecase.NewCartUsecase(store)),
		NewOrderHandler(usecase.NewOrderUsecase(store)),
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{srv: srv, store: store, catalog: usecase.NewCatalogUsecase(store)}
}

func (e *env) product(t *testing.T, name string, price int64, qty int) int64 {
	t.Helper()
	p, err := e.catalog.AddProduct(context.Background(), usecase.AddProductInput{Name: name, UnitPrice: price, Quantity: qty})
	require.NoError(t, err)
	return p.ID
}

func (e *env) customer(t *testing.T, name string) int64 {
	t.Helper()
	c, err := e.catalog.RegisterCustomer(context.Background(), usecase.RegisterPersonInput{
		Name:  name,
		Email: strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@example.com",
	})
	require.NoError(t, err)
	return c.ID
}

func (e *env) do(t *testing.T, customerID int64, method, path, body string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if customerID > 0 {
		req.Header.Set(middleware.HeaderCustomerID, strconv.FormatInt(customerID, 10))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func TestMall_CartCheckout(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "Kind of Blue", 1999, 5)
	b := e.product(t, "Blue Train", 1500, 2)
	cid := e.customer(t, "Miles Davis")

	for _, pid := range []int64{a, a, b} {
		status, body := e.do(t, cid, http.MethodPost, "/mall/me/cart/items", `{"product_id":`+strconv.FormatInt(pid, 10)+`}`)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := e.do(t, cid, http.MethodGet, "/mall/me/cart", "")
	require.Equal(t, http.StatusOK, status)
	var cart dto.Cart
	require.NoError(t, json.Unmarshal(body, &cart))
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, int64(2*1999+1500), cart.TotalAmount)

	status, body = e.do(t, cid, http.MethodPost, "/mall/me/orders", "")
	require.Equal(t, http.StatusCreated, status, string(body))
	var d dto.OrderDetail
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, int64(1), d.OrderID)
	assert.Nil(t, d.StaffID)
	assert.Len(t, d.Lines, 2)

	p, _ := e.store.Product(a)
	assert.Equal(t, 3, p.Quantity)
	assert.Empty(t, e.store.CartLines(cid))

	status, body = e.do(t, cid, http.MethodGet, "/mall/me/orders/1", "")
	assert.Equal(t, http.StatusOK, status, string(body))
	status, body = e.do(t, cid, http.MethodGet, "/mall/me/orders", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"order_id":1`)
}

func TestMall_PlaceOrderErrors(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "Kind of Blue", 1999, 1)
	cid := e.customer(t, "Miles Davis")
	aid := strconv.FormatInt(a, 10)

	status, body := e.do(t, cid, http.MethodPost, "/mall/me/orders", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"error":"empty_order"`)

	status, body = e.do(t, cid, http.MethodPost, "/mall/me/orders", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"error":"empty_order"`)

	status, body = e.do(t, cid, http.MethodPost, "/mall/me/orders", `{"items":[{"product_id":`+aid+`,"quantity":3}]}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.JSONEq(t, `{"error":"insufficient_stock","message":"insufficient stock for Kind of Blue: requested 3, available 1","product_id":`+aid+`,"product_name":"Kind of Blue","requested":3,"available":1}`, string(body))
	assert.Zero(t, e.store.OrderCount())

	status, _ = e.do(t, 0, http.MethodPost, "/mall/me/orders", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = e.do(t, cid, http.MethodPost, "/mall/me/orders", `{"itemz":[]}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMall_OrderOfAnotherCustomerIsNotFound(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "Kind of Blue", 1999, 5)
	owner := e.customer(t, "Miles Davis")
	other := e.customer(t, "John Coltrane")

	status, _ := e.do(t, owner, http.MethodPost, "/mall/me/orders", `{"items":[{"product_id":`+strconv.FormatInt(a, 10)+`,"quantity":1}]}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := e.do(t, other, http.MethodGet, "/mall/me/orders/1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), `"error":"not_found"`)
}

func TestMall_CartLineEdits(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "Kind of Blue", 1999, 2)
	z := e.product(t, "Sold Out", 1000, 0)
	cid := e.customer(t, "Miles Davis")

	status, body := e.do(t, cid, http.MethodPost, "/mall/me/cart/items", `{"product_id":`+strconv.FormatInt(z, 10)+`}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), `"error":"out_of_stock"`)

	status, _ = e.do(t, cid, http.MethodPost, "/mall/me/cart/items", `{"product_id":`+strconv.FormatInt(a, 10)+`}`)
	require.Equal(t, http.StatusCreated, status)

	status, body = e.do(t, cid, http.MethodPatch, "/mall/me/cart/items/1", `{"quantity":5}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(body), `"available":2`)

	status, _ = e.do(t, cid, http.MethodPatch, "/mall/me/cart/items/1", `{"quantity":2}`)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, 2, e.store.CartLines(cid)[0].Quantity)

	status, _ = e.do(t, cid, http.MethodPatch, "/mall/me/cart/items/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = e.do(t, cid, http.MethodDelete, "/mall/me/cart/items/1", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, e.store.CartLines(cid))

	status, _ = e.do(t, cid, http.MethodDelete, "/mall/me/cart/items/1", "")
	assert.Equal(t, http.StatusNotFound, status)
}
