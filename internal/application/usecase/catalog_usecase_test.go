package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	common "github.com/HsiaoHungKai/myDonut/internal/domain/common"
)

func TestRegisterCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c1, err := f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Ella", Email: "Ella@Example.com"})
	require.NoError(t, err)
	c2, err := f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Sarah", Email: "sarah@example.com"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), c1.ID)
	assert.Equal(t, int64(2), c2.ID)
	assert.Equal(t, "ella@example.com", c1.Email)

	_, err = f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Other", Email: "ella@example.com"})
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	_, err = f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "", Email: "x@example.com"})
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))

	_, err = f.catalog.RegisterCustomer(ctx, usecase.RegisterPersonInput{Name: "Bad", Email: "not-an-email"})
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
}

func TestAddProductAndRestock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.AddProduct(ctx, usecase.AddProductInput{Name: "Free", UnitPrice: -1, Quantity: 1})
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))

	p := f.product(t, "Kind of Blue", 1999, 2)
	assert.Equal(t, int64(1), p.ID)

	got, err := f.catalog.RestockProduct(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	_, err = f.catalog.RestockProduct(ctx, p.ID, -8)
	assert.Equal(t, common.KindInvalidArgument, common.KindOf(err))
	assert.Equal(t, 7, f.stock(t, p.ID))

	_, err = f.catalog.RestockProduct(ctx, 99, 1)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	list, err := f.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ordered := f.product(t, "Kind of Blue", 1000, 5)
	carted := f.product(t, "Blue Train", 1000, 5)
	c := f.customer(t, "Miles Davis")
	f.placeExplicit(t, c.ID, item(ordered.ID, 1))
	f.addToCart(t, c.ID, carted.ID, 2)

	err := f.catalog.DeleteProduct(ctx, ordered.ID)
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	require.NoError(t, f.catalog.DeleteProduct(ctx, carted.ID))
	assert.Empty(t, f.store.CartLines(c.ID))
	_, ok := f.store.Product(carted.ID)
	assert.False(t, ok)

	_, err = f.catalog.GetProduct(ctx, carted.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestDeleteCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Kind of Blue", 1000, 5)
	buyer := f.customer(t, "Miles Davis")
	browser := f.customer(t, "Chet Baker")
	f.placeExplicit(t, buyer.ID, item(a.ID, 1))
	f.addToCart(t, browser.ID, a.ID, 1)

	err := f.catalog.DeleteCustomer(ctx, buyer.ID)
	assert.Equal(t, common.KindConflict, common.KindOf(err))

	require.NoError(t, f.catalog.DeleteCustomer(ctx, browser.ID))
	assert.Empty(t, f.store.CartLines(browser.ID))

	err = f.catalog.DeleteCustomer(ctx, browser.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}
