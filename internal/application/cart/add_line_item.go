package cart

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	"github.com/xiebiao/bookcart/pkg/metrics"
	"github.com/xiebiao/bookcart/pkg/tracing"
)

const tracerName = "application/cart"

// AddLineItemUseCase 加入图书
// 教学要点:
// 1. 单价从图书服务读取,写入明细后成为快照
// 2. 不检查库存,库存只在下单时扣减
// 3. 整个过程在一个事务内,失败时购物车保持原样
type AddLineItemUseCase struct {
	carts     cart.Repository
	lineItems cart.LineItemRepository
	books     book.Service
	txm       transaction.Manager
}

// NewAddLineItemUseCase 创建用例
func NewAddLineItemUseCase(
	carts cart.Repository,
	lineItems cart.LineItemRepository,
	books book.Service,
	txm transaction.Manager,
) *AddLineItemUseCase {
	return &AddLineItemUseCase{
		carts:     carts,
		lineItems: lineItems,
		books:     books,
		txm:       txm,
	}
}

// AddLineItemRequest 加入请求
type AddLineItemRequest struct {
	CartID     uint
	CustomerID uint
	BookID     uint
	Quantity   int
}

// Execute 执行加入
func (uc *AddLineItemUseCase) Execute(ctx context.Context, req AddLineItemRequest) (result *cart.Cart, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AddLineItem", trace.WithAttributes(
		attribute.Int64("cart.id", int64(req.CartID)),
		attribute.Int64("book.id", int64(req.BookID)),
		attribute.Int("quantity", req.Quantity),
	))
	defer func() {
		metrics.RecordCartOperation("add_line_item", err)
		tracing.EndSpan(span, err)
	}()

	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	err = uc.txm.Transaction(ctx, func(ctx context.Context) error {
		// 1. 锁定购物车
		c, err := lockOwnedActive(ctx, uc.carts, req.CartID, req.CustomerID)
		if err != nil {
			return err
		}

		// 2. 读取图书当前价格,图书不存在(包括ID为0)直接返回
		b, err := uc.books.GetBookByID(ctx, req.BookID)
		if err != nil {
			return err
		}

		// 3. 聚合内累加或新建明细,并重算总价
		change, err := c.AddItem(b.ID, req.Quantity, b.Price)
		if err != nil {
			return err
		}

		// 4. 持久化明细和购物车总价
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
