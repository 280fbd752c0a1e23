// Package messaging 领域事件发布
//
// 订单事务提交之后发布order.created,发布失败只记日志不影响下单。
// 发布经过熔断器:RabbitMQ不可用时快速失败,不拖慢下单接口。
package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/pkg/circuitbreaker"
	"github.com/xiebiao/bookcart/pkg/metrics"
	"github.com/xiebiao/bookcart/pkg/tracing"
)

// RoutingKeyOrderCreated 订单创建事件的routing key
const RoutingKeyOrderCreated = "order.created"

// Publisher 消息发布(pkg/mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
	Exchange() string
}

// OrderCreatedEvent order.created事件体
type OrderCreatedEvent struct {
	EventID       string           `json:"event_id"`
	EventType     string           `json:"event_type"`
	OccurredAt    time.Time        `json:"occurred_at"`
	TraceID       string           `json:"trace_id,omitempty"`
	OrderID       uint             `json:"order_id"`
	OrderNo       string           `json:"order_no"`
	CustomerID    uint             `json:"customer_id"`
	CartID        uint             `json:"cart_id"`
	PaymentMethod string           `json:"payment_method"`
	Total         int64            `json:"total"` // 分
	Items         []OrderEventItem `json:"items"`
}

// OrderEventItem 事件中的订单明细
type OrderEventItem struct {
	BookID   uint  `json:"book_id"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
}

// NewOrderCreatedEvent 由订单构造事件
func NewOrderCreatedEvent(ctx context.Context, o *order.Order) *OrderCreatedEvent {
	items := make([]OrderEventItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderEventItem{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price}
	}
	return &OrderCreatedEvent{
		EventID:       uuid.NewString(),
		EventType:     RoutingKeyOrderCreated,
		OccurredAt:    time.Now(),
		TraceID:       tracing.ExtractTraceID(ctx),
		OrderID:       o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		CartID:        o.CartID,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total,
		Items:         items,
	}
}

// OrderEventPublisher 实现order.EventPublisher
type OrderEventPublisher struct {
	publisher Publisher
	breaker   *circuitbreaker.Breaker
	logger    *zap.Logger
}

// NewOrderEventPublisher 创建订单事件发布者
func NewOrderEventPublisher(publisher Publisher, breaker *circuitbreaker.Breaker, logger *zap.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{publisher: publisher, breaker: breaker, logger: logger}
}

// PublishOrderCreated 发布order.created
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	event := NewOrderCreatedEvent(ctx, o)
	err := p.breaker.Execute(func() error {
		return p.publisher.Publish(ctx, RoutingKeyOrderCreated, event)
	})
	metrics.RecordMessagePublished(p.publisher.Exchange(), RoutingKeyOrderCreated, err)
	if err != nil {
		return err
	}

	p.logger.Debug("订单事件已发布",
		zap.String("event_id", event.EventID),
		zap.String("order_no", o.OrderNo))
	return nil
}

// NoopPublisher mq.enabled=false时使用,只记日志
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher 创建空发布者
func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	p.logger.Debug("消息队列未启用,跳过订单事件", zap.String("order_no", o.OrderNo))
	return nil
}
