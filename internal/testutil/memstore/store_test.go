package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcart/internal/domain/cart"
)

func TestTransaction_RollbackRestoresSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SeedInventory(1, 5)

	boom := errors.New("boom")
	err := s.TxManager().Transaction(ctx, func(ctx context.Context) error {
		ok, err := s.Inventories().DecrementStock(ctx, 1, 3)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, s.Carts().Create(ctx, cart.NewCart(1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, s.Stock(1))

	_, err = s.Carts().FindByID(ctx, 1)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestTransaction_RollbackKeepsWritesOutsideTx(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SeedInventory(1, 5)

	started := make(chan struct{})
	done := make(chan error, 1)
	boom := errors.New("boom")
	err := s.TxManager().Transaction(ctx, func(txCtx context.Context) error {
		_, err := s.Inventories().DecrementStock(txCtx, 1, 3)
		require.NoError(t, err)
		go func() {
			close(started)
			// 自动提交的写入要等事务结束
			done <- s.Carts().Create(ctx, cart.NewCart(7))
		}()
		<-started
		time.Sleep(10 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	assert.Equal(t, 5, s.Stock(1))
	c, err := s.Carts().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.CustomerID)
}

func TestTransaction_NestedReusesOuter(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.SeedInventory(1, 5)
	txm := s.TxManager()

	err := txm.Transaction(ctx, func(ctx context.Context) error {
		// 嵌套调用不会再次加锁，否则这里会死锁
		if err := txm.Transaction(ctx, func(ctx context.Context) error {
			assert.True(t, InTx(ctx))
			_, err := s.Inventories().DecrementStock(ctx, 1, 2)
			return err
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	require.Error(t, err)
	assert.Equal(t, 5, s.Stock(1), "inner work rolls back with the outer transaction")
}

func TestDecrementStock_NeverNegative(t *testing.T) {
	s := New()
	s.SeedInventory(1, 2)

	ok, err := s.Inventories().DecrementStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Stock(1))
}
