package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/pkg/logger"
)

// GetOrderUseCase 查询订单详情
// 教学要点:Cache-Aside
// 1. 先查缓存,命中直接返回
// 2. 未命中查数据库,再回填缓存
// 3. 缓存故障(包括熔断)时降级为直接查数据库
type GetOrderUseCase struct {
	orders order.Repository
	cache  order.Cache
}

// NewGetOrderUseCase 创建用例,cache可以为nil
func NewGetOrderUseCase(orders order.Repository, cache order.Cache) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders, cache: cache}
}

// Execute 只有下单人可以查看
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, customerID uint) (*order.Order, error) {
	log := logger.FromContext(ctx)

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, orderID)
		if err != nil {
			log.Debug("读取订单缓存失败,降级查询数据库", zap.Uint("order_id", orderID), zap.Error(err))
		} else if cached != nil {
			if !cached.IsOwnedBy(customerID) {
				return nil, order.ErrForbidden
			}
			return cached, nil
		}
	}

	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(customerID) {
		return nil, order.ErrForbidden
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, o); err != nil {
			log.Debug("回填订单缓存失败", zap.Uint("order_id", orderID), zap.Error(err))
		}
	}
	return o, nil
}
