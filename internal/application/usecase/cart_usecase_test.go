package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
)

func TestAddToCart_SecondAddBeyondStockFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Kind of Blue", 1999, 1)
	c := f.customer(t, "Miles Davis")

	line, err := f.carts.AddToCart(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, int64(1), line.LineID)

	_, err = f.carts.AddToCart(ctx, c.ID, a.ID)
	var ise *common.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 2, ise.Requested)
	assert.Equal(t, 1, ise.Available)

	lines := f.store.CartLines(c.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, 1, f.stock(t, a.ID), "cart never touches the ledger")
}

func TestAddToCart_LineIDsArePerCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Kind of Blue", 1999, 5)
	b := f.product(t, "Blue Train", 1500, 5)
	c1 := f.customer(t, "Miles Davis")
	c2 := f.customer(t, "John Coltrane")

	l1, err := f.carts.AddToCart(ctx, c1.ID, a.ID)
	require.NoError(t, err)
	l2, err := f.carts.AddToCart(ctx, c1.ID, b.ID)
	require.NoError(t, err)
	l3, err := f.carts.AddToCart(ctx, c2.ID, b.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), l1.LineID)
	assert.Equal(t, int64(2), l2.LineID)
	assert.Equal(t, int64(1), l3.LineID)
}

func TestAddToCart_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empty := f.product(t, "Sold Out", 1000, 0)
	c := f.customer(t, "Miles Davis")

	_, err := f.carts.AddToCart(ctx, c.ID, empty.ID)
	assert.Equal(t, common.KindOutOfStock, common.KindOf(err))

	_, err = f.carts.AddToCart(ctx, c.ID, 404)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = f.carts.AddToCart(ctx, 404, empty.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = f.carts.AddToCart(ctx, 0, empty.ID)
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))

	assert.Empty(t, f.store.CartLines(c.ID))
}

func TestSetQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Kind of Blue", 1999, 3)
	b := f.product(t, "Blue Train", 1500, 3)
	c := f.customer(t, "Miles Davis")
	f.addToCart(t, c.ID, a.ID, 1)
	f.addToCart(t, c.ID, b.ID, 1)

	require.NoError(t, f.carts.SetQuantity(ctx, c.ID, 1, 3))
	assert.Equal(t, 3, f.store.CartLines(c.ID)[0].Quantity)

	err := f.carts.SetQuantity(ctx, c.ID, 1, 4)
	assert.Equal(t, common.KindInsufficientStock, common.KindOf(err))
	assert.Equal(t, 3, f.store.CartLines(c.ID)[0].Quantity)

	err = f.carts.SetQuantity(ctx, c.ID, 9, 1)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	err = f.carts.SetQuantity(ctx, c.ID, 1, -1)
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))

	require.NoError(t, f.carts.SetQuantity(ctx, c.ID, 1, 0))
	lines := f.store.CartLines(c.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, b.ID, lines[0].ProductID)
}

func TestRemoveLineAndGetCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Kind of Blue", 1000, 3)
	b := f.product(t, "Blue Train", 2500, 3)
	c := f.customer(t, "Miles Davis")
	f.addToCart(t, c.ID, a.ID, 2)
	f.addToCart(t, c.ID, b.ID, 1)

	view, err := f.carts.GetCart(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "Kind of Blue", view.Lines[0].ProductName)
	assert.Equal(t, 3, view.Lines[0].Available)
	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, int64(2*1000+2500), view.TotalAmount)

	require.NoError(t, f.carts.RemoveLine(ctx, c.ID, 1))
	err = f.carts.RemoveLine(ctx, c.ID, 1)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	view, err = f.carts.GetCart(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
	assert.Equal(t, int64(2500), view.TotalAmount)
}
