package cart

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	"github.com/xiebiao/bookcart/pkg/metrics"
	"github.com/xiebiao/bookcart/pkg/tracing"
)

// RemoveLineItemUseCase 移除明细数量
// 移除数量大于等于持有数量时删除整条明细
type RemoveLineItemUseCase struct {
	carts     cart.Repository
	lineItems cart.LineItemRepository
	txm       transaction.Manager
}

// NewRemoveLineItemUseCase 创建用例
func NewRemoveLineItemUseCase(
	carts cart.Repository,
	lineItems cart.LineItemRepository,
	txm transaction.Manager,
) *RemoveLineItemUseCase {
	return &RemoveLineItemUseCase{
		carts:     carts,
		lineItems: lineItems,
		txm:       txm,
	}
}

// RemoveLineItemRequest 移除请求
type RemoveLineItemRequest struct {
	CartID     uint
	CustomerID uint
	LineItemID uint
	Quantity   int
}

// Execute 执行移除
func (uc *RemoveLineItemUseCase) Execute(ctx context.Context, req RemoveLineItemRequest) (result *cart.Cart, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "RemoveLineItem", trace.WithAttributes(
		attribute.Int64("cart.id", int64(req.CartID)),
		attribute.Int64("line_item.id", int64(req.LineItemID)),
		attribute.Int("quantity", req.Quantity),
	))
	defer func() {
		metrics.RecordCartOperation("remove_line_item", err)
		tracing.EndSpan(span, err)
	}()

	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	err = uc.txm.Transaction(ctx, func(ctx context.Context) error {
		c, err := lockOwnedActive(ctx, uc.carts, req.CartID, req.CustomerID)
		if err != nil {
			return err
		}

		// 明细不属于该购物车时,聚合内找不到,返回ErrLineItemNotFound
		change, err := c.RemoveItem(req.LineItemID, req.Quantity)
		if err != nil {
			return err
		}

		if err := cart.ApplyChange(ctx, uc.lineItems, change); err != nil {
			return err
		}
		if err := uc.carts.Update(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
