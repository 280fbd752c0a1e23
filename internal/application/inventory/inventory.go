package inventory

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/pkg/query"
)

// GetInventoryUseCase 查询单本书的库存
type GetInventoryUseCase struct {
	inventories inventory.Service
}

// NewGetInventoryUseCase 创建库存查询用例
func NewGetInventoryUseCase(inventories inventory.Service) *GetInventoryUseCase {
	return &GetInventoryUseCase{inventories: inventories}
}

// Execute 执行查询
func (uc *GetInventoryUseCase) Execute(ctx context.Context, bookID uint) (*inventory.Inventory, error) {
	return uc.inventories.FindInventory(ctx, bookID)
}

// ListLogsUseCase 分页查询库存变更日志
// 日志按id升序,INIT在前,之后是每次下单的RESERVE
type ListLogsUseCase struct {
	inventories inventory.Service
	logs        inventory.LogRepository
}

// NewListLogsUseCase 创建日志查询用例
func NewListLogsUseCase(inventories inventory.Service, logs inventory.LogRepository) *ListLogsUseCase {
	return &ListLogsUseCase{inventories: inventories, logs: logs}
}

// Execute 图书没有库存记录时返回ErrInventoryNotFound
func (uc *ListLogsUseCase) Execute(ctx context.Context, bookID uint, page query.Pagination) (*query.PageResult[*inventory.Log], error) {
	if _, err := uc.inventories.FindInventory(ctx, bookID); err != nil {
		return nil, err
	}

	page = page.Normalize()
	logs, total, err := uc.logs.ListByBookID(ctx, bookID, page)
	if err != nil {
		return nil, err
	}
	return query.NewPageResult(logs, total, page), nil
}
