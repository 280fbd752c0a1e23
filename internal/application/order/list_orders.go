package order

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/pkg/query"
)

// ListOrdersUseCase 分页查询顾客的订单
type ListOrdersUseCase struct {
	orders order.Repository
}

// NewListOrdersUseCase 创建用例
func NewListOrdersUseCase(orders order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

// ListOrdersRequest 列表请求
type ListOrdersRequest struct {
	RequesterID uint // 当前登录用户
	CustomerID  uint // 为0时查询自己的订单
	Page        query.Pagination
}

// Execute 只能查询自己的订单,按id升序分页
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*query.PageResult[*order.Order], error) {
	customerID := req.CustomerID
	if customerID == 0 {
		customerID = req.RequesterID
	}
	if customerID != req.RequesterID {
		return nil, order.ErrForbidden
	}

	page := req.Page.Normalize()
	orders, total, err := uc.orders.List(ctx, []query.Filter{query.Eq("customer_id", customerID)}, page)
	if err != nil {
		return nil, err
	}
	return query.NewPageResult(orders, total, page), nil
}
