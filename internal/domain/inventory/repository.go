package inventory

import (
	"context"

	"github.com/xiebiao/bookcart/pkg/query"
)

// Repository 库存仓储接口
type Repository interface {
	// Create 创建库存记录
	Create(ctx context.Context, inv *Inventory) error

	// FindByBookID 查询库存，不存在返回ErrInventoryNotFound
	FindByBookID(ctx context.Context, bookID uint) (*Inventory, error)

	// LockByBookID 悲观锁查询（SELECT ... FOR UPDATE），必须在事务内调用
	LockByBookID(ctx context.Context, bookID uint) (*Inventory, error)

	// DecrementStock 条件扣减：UPDATE ... SET stock = stock - ? WHERE book_id = ? AND stock >= ?
	// 返回false表示库存不足，没有任何行被修改
	DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error)
}

// LogRepository 库存日志仓储接口
type LogRepository interface {
	// BatchCreate 批量写入日志
	BatchCreate(ctx context.Context, logs []*Log) error

	// ListByBookID 按id升序分页查询某本书的日志
	ListByBookID(ctx context.Context, bookID uint, page query.Pagination) ([]*Log, int64, error)
}
