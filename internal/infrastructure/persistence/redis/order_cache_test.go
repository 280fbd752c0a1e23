package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// 指向一个没有服务监听的端口,模拟Redis宕机
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestOrderCache_BreakerOpensOnRedisOutage(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	breaker := circuitbreaker.New("redis-test-outage", circuitbreaker.Config{
		ConsecutiveFailures: 2,
		Timeout:             time.Minute,
	})
	cache := NewOrderCache(client, breaker, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cache.Get(ctx, 1)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeRedisError))
		assert.False(t, circuitbreaker.IsRejected(err))
	}

	// 熔断打开后不再访问Redis
	_, err := cache.Get(ctx, 1)
	require.Error(t, err)
	assert.True(t, circuitbreaker.IsRejected(err))
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	err = cache.Set(ctx, &order.Order{ID: 1})
	assert.True(t, circuitbreaker.IsRejected(err))
}

func TestCachedOrderConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	o := &order.Order{
		ID:            9,
		OrderNo:       "ORD20240501100000ABCDEF12",
		CustomerID:    3,
		CartID:        4,
		PaymentMethod: order.PaymentPaypal,
		Status:        order.OrderStatusPending,
		Total:         3000,
		Items: []order.OrderItem{
			{ID: 1, OrderID: 9, BookID: 5, Quantity: 2, Price: 1000, TotalPrice: 2000},
			{ID: 2, OrderID: 9, BookID: 6, Quantity: 1, Price: 1000, TotalPrice: 1000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	assert.Equal(t, o, fromCached(toCached(o)))
	assert.Equal(t, "order:detail:9", orderKey(9))
	assert.Equal(t, "session:3", sessionKey(3))
}
