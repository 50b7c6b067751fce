package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usecase "github.com/HsiaoHungKai/myDonut/internal/application/usecase"
	"github.com/HsiaoHungKai/myDonut/internal/domain/identifier"
	productdom "github.com/HsiaoHungKai/myDonut/internal/domain/product"
)

func seedProduct(t *testing.T, s *Store, qty int) {
	t.Helper()
	err := s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		return tx.Products().Create(ctx, productdom.Product{ID: 1, Name: "Kind of Blue", UnitPrice: 100, Quantity: qty})
	})
	require.NoError(t, err)
}

func TestWithTx_ErrorDiscardsWrites(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, 5)
	boom := errors.New("boom")

	err := s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		require.NoError(t, tx.Products().Debit(ctx, 1, 3))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	p, _ := s.Product(1)
	assert.Equal(t, 5, p.Quantity)
}

func TestWithTx_PanicDiscardsWritesAndUnlocks(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, 5)

	assert.Panics(t, func() {
		_ = s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
			_ = tx.Products().Debit(ctx, 1, 5)
			panic("handler bug")
		})
	})

	p, _ := s.Product(1)
	assert.Equal(t, 5, p.Quantity)
}

func TestWithTx_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithTx(ctx, func(context.Context, usecase.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDebit_IsConditional(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, 2)

	err := s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		return tx.Products().Debit(ctx, 1, 3)
	})
	assert.ErrorIs(t, err, productdom.ErrStockShortfall)

	err = s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		return tx.Products().Debit(ctx, 9, 1)
	})
	assert.ErrorIs(t, err, productdom.ErrNotFound)
}

func TestAllocator(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, 1)

	err := s.WithTx(context.Background(), func(ctx context.Context, tx usecase.Tx) error {
		id, err := tx.IDs().Next(ctx, identifier.KindProduct, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)

		id, err = tx.IDs().Next(ctx, identifier.KindOrder, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		_, err = tx.IDs().Next(ctx, identifier.Kind(42), 0)
		assert.ErrorIs(t, err, identifier.ErrUnknownKind)
		return nil
	})
	require.NoError(t, err)
}
