package order

import (
	"context"

	"github.com/xiebiao/bookcart/pkg/query"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. 订单创建后不可修改,所以没有Update
type Repository interface {
	// Create 创建订单(包含订单明细),订单号重复返回ErrOrderNoGenerate
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// List 按过滤条件分页查询,按id升序
	List(ctx context.Context, filters []query.Filter, page query.Pagination) ([]*Order, int64, error)
}

// Cache 订单详情缓存(Cache-Aside)
// 未命中时Get返回(nil, nil)
type Cache interface {
	Get(ctx context.Context, id uint) (*Order, error)
	Set(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uint) error
}

// EventPublisher 订单事件发布
type EventPublisher interface {
	// PublishOrderCreated 发布order.created事件,在事务提交之后调用
	PublishOrderCreated(ctx context.Context, order *Order) error
}
