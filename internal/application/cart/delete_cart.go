package cart

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	"github.com/xiebiao/bookcart/pkg/metrics"
)

// DeleteCartUseCase 删除购物车及其明细
// 已下单的购物车被订单引用,不允许删除
type DeleteCartUseCase struct {
	carts cart.Repository
	txm   transaction.Manager
}

// NewDeleteCartUseCase 创建用例
func NewDeleteCartUseCase(carts cart.Repository, txm transaction.Manager) *DeleteCartUseCase {
	return &DeleteCartUseCase{carts: carts, txm: txm}
}

// Execute 删除购物车
func (uc *DeleteCartUseCase) Execute(ctx context.Context, cartID, customerID uint) (err error) {
	defer func() { metrics.RecordCartOperation("delete", err) }()

	return uc.txm.Transaction(ctx, func(ctx context.Context) error {
		if _, err := lockOwnedActive(ctx, uc.carts, cartID, customerID); err != nil {
			return err
		}
		return uc.carts.Delete(ctx, cartID)
	})
}
