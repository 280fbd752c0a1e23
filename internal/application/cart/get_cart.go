package cart

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/cart"
)

// GetCartUseCase 查询购物车(含明细)
type GetCartUseCase struct {
	carts cart.Repository
}

// NewGetCartUseCase 创建用例
func NewGetCartUseCase(carts cart.Repository) *GetCartUseCase {
	return &GetCartUseCase{carts: carts}
}

// Execute 只有购物车的主人可以查看
// inactive的购物车也可以查看
func (uc *GetCartUseCase) Execute(ctx context.Context, cartID, customerID uint) (*cart.Cart, error) {
	c, err := uc.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !c.IsOwnedBy(customerID) {
		return nil, cart.ErrForbidden
	}
	return c, nil
}
