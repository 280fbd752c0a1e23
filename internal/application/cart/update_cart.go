package cart

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	"github.com/xiebiao/bookcart/pkg/metrics"
)

// UpdateCartUseCase 更新地址和配送方式
type UpdateCartUseCase struct {
	carts cart.Repository
	txm   transaction.Manager
}

// NewUpdateCartUseCase 创建用例
func NewUpdateCartUseCase(carts cart.Repository, txm transaction.Manager) *UpdateCartUseCase {
	return &UpdateCartUseCase{carts: carts, txm: txm}
}

// UpdateCartRequest 更新请求
type UpdateCartRequest struct {
	CartID     uint
	CustomerID uint
	Draft      cart.Draft
}

// Execute 只修改地址和配送方式,金额不变
func (uc *UpdateCartUseCase) Execute(ctx context.Context, req UpdateCartRequest) (result *cart.Cart, err error) {
	defer func() { metrics.RecordCartOperation("update", err) }()

	// 事务外先做参数校验
	if req.Draft.DeliveryMethod != nil && !req.Draft.DeliveryMethod.IsValid() {
		return nil, cart.ErrInvalidDeliveryMethod
	}

	err = uc.txm.Transaction(ctx, func(ctx context.Context) error {
		c, err := lockOwnedActive(ctx, uc.carts, req.CartID, req.CustomerID)
		if err != nil {
			return err
		}
		if err := c.ApplyDraft(req.Draft); err != nil {
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
