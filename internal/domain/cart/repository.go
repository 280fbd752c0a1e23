package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 所有方法都从ctx中获取事务句柄（如果有）
type Repository interface {
	// Create 创建购物车，回填ID
	Create(ctx context.Context, c *Cart) error

	// FindByID 查询购物车及其明细（按明细ID升序），不存在返回ErrCartNotFound
	FindByID(ctx context.Context, id uint) (*Cart, error)

	// LockByID 同FindByID，但对购物车行加排他锁（SELECT ... FOR UPDATE）
	// 必须在事务内调用，用于串行化同一购物车的并发修改
	LockByID(ctx context.Context, id uint) (*Cart, error)

	// Update 保存状态、总价、地址和配送方式（不含明细）
	Update(ctx context.Context, c *Cart) error

	// Delete 删除购物车及其明细，不存在返回ErrCartNotFound
	Delete(ctx context.Context, id uint) error
}

// LineItemRepository 购物车明细仓储接口
type LineItemRepository interface {
	// Create 持久化新明细，quantity<=0返回ErrInvalidQuantity
	Create(ctx context.Context, li *LineItem) error

	// UpdateQuantity 保存数量与小计，不存在返回ErrLineItemNotFound
	UpdateQuantity(ctx context.Context, li *LineItem) error

	// Delete 删除明细，不存在返回ErrLineItemNotFound
	Delete(ctx context.Context, id uint) error
}

// ApplyChange 将聚合产生的变更写入明细仓储
func ApplyChange(ctx context.Context, repo LineItemRepository, change Change) error {
	switch change.Kind {
	case ChangeCreated:
		return repo.Create(ctx, change.Item)
	case ChangeUpdated:
		return repo.UpdateQuantity(ctx, change.Item)
	case ChangeDeleted:
		return repo.Delete(ctx, change.Item.ID)
	}
	return nil
}
