package cart

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/pkg/metrics"
)

// CreateCartUseCase 创建购物车用例
// 新购物车为active状态,总价为0,没有明细
type CreateCartUseCase struct {
	carts cart.Repository
}

// NewCreateCartUseCase 创建用例
func NewCreateCartUseCase(carts cart.Repository) *CreateCartUseCase {
	return &CreateCartUseCase{carts: carts}
}

// Execute 为顾客创建一个空购物车
func (uc *CreateCartUseCase) Execute(ctx context.Context, customerID uint) (c *cart.Cart, err error) {
	defer func() { metrics.RecordCartOperation("create", err) }()

	c = cart.NewCart(customerID)
	if err := uc.carts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
