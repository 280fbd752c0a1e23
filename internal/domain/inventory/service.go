package inventory

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookcart/internal/domain/transaction"
)

// Service 库存领域服务
// 防止超卖的唯一关口：所有扣减都必须经过Reserve
type Service interface {
	// FindInventory 查询库存
	FindInventory(ctx context.Context, bookID uint) (*Inventory, error)

	// Reserve 检查并扣减库存
	// 在调用方的事务内执行（没有外层事务时自己开启一个）
	// 失败时不会有任何扣减发生，调用方负责回滚同一订单中之前的扣减
	Reserve(ctx context.Context, bookID uint, quantity int) (*Reservation, error)
}

type service struct {
	repo Repository
	txm  transaction.Manager
}

// NewService 创建库存领域服务
func NewService(repo Repository, txm transaction.Manager) Service {
	return &service{repo: repo, txm: txm}
}

// FindInventory 查询库存
func (s *service) FindInventory(ctx context.Context, bookID uint) (*Inventory, error) {
	if bookID == 0 {
		return nil, ErrInvalidBookID
	}
	return s.repo.FindByBookID(ctx, bookID)
}

// Reserve 扣减库存
// 教学要点:
// 1. 先SELECT ... FOR UPDATE锁定库存行，并发的扣减在这里排队
// 2. 再用带条件的UPDATE扣减，即使锁被绕过也不会扣成负数
// 3. 两步都在同一个事务里，检查和扣减对其他事务是原子的
func (s *service) Reserve(ctx context.Context, bookID uint, quantity int) (*Reservation, error) {
	if bookID == 0 {
		return nil, ErrInvalidBookID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var res *Reservation
	err := s.txm.Transaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.LockByBookID(ctx, bookID)
		if err != nil {
			return err
		}

		if !inv.CanDeduct(quantity) {
			return ErrInsufficientStock.WithCause(
				fmt.Errorf("book_id=%d requested=%d available=%d", bookID, quantity, inv.Stock))
		}

		ok, err := s.repo.DecrementStock(ctx, bookID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock.WithCause(
				fmt.Errorf("book_id=%d requested=%d: conditional update matched no rows", bookID, quantity))
		}

		res = &Reservation{
			BookID:      bookID,
			Quantity:    quantity,
			StockBefore: inv.Stock,
			StockAfter:  inv.Stock - quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
