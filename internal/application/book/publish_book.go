package book

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 图书和库存属于两个聚合,上架时在同一事务内创建
// 2. 初始库存写一条INIT日志,之后的每次扣减都能从日志追溯
type PublishBookUseCase struct {
	bookService   book.Service
	inventories   inventory.Repository
	inventoryLogs inventory.LogRepository
	txManager     transaction.Manager
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(
	bookService book.Service,
	inventories inventory.Repository,
	inventoryLogs inventory.LogRepository,
	txManager transaction.Manager,
) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService:   bookService,
		inventories:   inventories,
		inventoryLogs: inventoryLogs,
		txManager:     txManager,
	}
}

// PublishBookRequest 上架请求,Draft.PublisherID取自认证中间件
type PublishBookRequest struct {
	Draft book.Draft
	Stock int // 初始库存
}

// PublishBookResult 上架结果
type PublishBookResult struct {
	Book  *book.Book
	Stock int
}

// Execute 执行上架
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*PublishBookResult, error) {
	if req.Stock < 0 {
		return nil, book.ErrInvalidStock
	}

	var result *PublishBookResult
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		b, err := uc.bookService.PublishBook(ctx, req.Draft)
		if err != nil {
			return err
		}

		inv, err := inventory.NewInventory(b.ID, req.Stock)
		if err != nil {
			return err
		}
		if err := uc.inventories.Create(ctx, inv); err != nil {
			return err
		}
		if err := uc.inventoryLogs.BatchCreate(ctx, []*inventory.Log{inventory.NewInitLog(inv)}); err != nil {
			return err
		}

		result = &PublishBookResult{Book: b, Stock: inv.Stock}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
