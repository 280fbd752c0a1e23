package cart

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/cart"
)

// lockOwnedActive 在事务内锁定购物车并做前置检查
// 检查顺序:存在 → 归属(403) → 状态(409)
func lockOwnedActive(ctx context.Context, carts cart.Repository, cartID, customerID uint) (*cart.Cart, error) {
	c, err := carts.LockByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !c.IsOwnedBy(customerID) {
		return nil, cart.ErrForbidden
	}
	if err := c.EnsureActive(); err != nil {
		return nil, err
	}
	return c, nil
}
