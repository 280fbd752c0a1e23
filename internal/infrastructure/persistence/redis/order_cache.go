package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// DefaultOrderTTL 订单详情缓存默认过期时间
const DefaultOrderTTL = 30 * time.Minute

// OrderCache 订单详情缓存
// 教学要点:
// 1. Key: order:detail:{id},值为JSON
// 2. 所有Redis调用都经过熔断器,Redis故障时快速失败,调用方降级查库
// 3. 订单创建后不再修改,所以缓存只有过期没有失效
type OrderCache struct {
	client  *redis.Client
	breaker *circuitbreaker.Breaker
	ttl     time.Duration
}

// NewOrderCache 创建订单缓存,ttl<=0时使用DefaultOrderTTL
func NewOrderCache(client *redis.Client, breaker *circuitbreaker.Breaker, ttl time.Duration) *OrderCache {
	if ttl <= 0 {
		ttl = DefaultOrderTTL
	}
	return &OrderCache{client: client, breaker: breaker, ttl: ttl}
}

func orderKey(id uint) string {
	return fmt.Sprintf("order:detail:%d", id)
}

// cachedOrder 缓存中的订单结构,与领域实体解耦
type cachedOrder struct {
	ID            uint         `json:"id"`
	OrderNo       string       `json:"order_no"`
	CustomerID    uint         `json:"customer_id"`
	CartID        uint         `json:"cart_id"`
	PaymentMethod string       `json:"payment_method"`
	Status        int          `json:"status"`
	Total         int64        `json:"total"`
	Items         []cachedItem `json:"items"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type cachedItem struct {
	ID         uint  `json:"id"`
	BookID     uint  `json:"book_id"`
	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	TotalPrice int64 `json:"total_price"`
}

// Get 未命中返回(nil, nil)
func (c *OrderCache) Get(ctx context.Context, id uint) (*order.Order, error) {
	var data []byte
	err := c.breaker.Execute(func() error {
		b, err := c.client.Get(ctx, orderKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeRedisError, "读取订单缓存失败").WithCause(err)
	}
	if data == nil {
		return nil, nil
	}

	var co cachedOrder
	if err := json.Unmarshal(data, &co); err != nil {
		return nil, apperrors.Wrap(err, "解析订单缓存失败")
	}
	return fromCached(&co), nil
}

func (c *OrderCache) Set(ctx context.Context, o *order.Order) error {
	data, err := json.Marshal(toCached(o))
	if err != nil {
		return apperrors.Wrap(err, "序列化订单失败")
	}
	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, orderKey(o.ID), data, c.ttl).Err()
	})
	if err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "写入订单缓存失败").WithCause(err)
	}
	return nil
}

func (c *OrderCache) Delete(ctx context.Context, id uint) error {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, orderKey(id)).Err()
	})
	if err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "删除订单缓存失败").WithCause(err)
	}
	return nil
}

func toCached(o *order.Order) *cachedOrder {
	items := make([]cachedItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = cachedItem{ID: it.ID, BookID: it.BookID, Quantity: it.Quantity, Price: it.Price, TotalPrice: it.TotalPrice}
	}
	return &cachedOrder{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		CartID:        o.CartID,
		PaymentMethod: string(o.PaymentMethod),
		Status:        int(o.Status),
		Total:         o.Total,
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func fromCached(co *cachedOrder) *order.Order {
	items := make([]order.OrderItem, len(co.Items))
	for i, it := range co.Items {
		items[i] = order.OrderItem{
			ID:         it.ID,
			OrderID:    co.ID,
			BookID:     it.BookID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
		}
	}
	return &order.Order{
		ID:            co.ID,
		OrderNo:       co.OrderNo,
		CustomerID:    co.CustomerID,
		CartID:        co.CartID,
		PaymentMethod: order.PaymentMethod(co.PaymentMethod),
		Status:        order.OrderStatus(co.Status),
		Total:         co.Total,
		Items:         items,
		CreatedAt:     co.CreatedAt,
		UpdatedAt:     co.UpdatedAt,
	}
}
