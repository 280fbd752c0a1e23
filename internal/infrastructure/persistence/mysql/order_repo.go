package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcart/internal/domain/order"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/query"
)

// orderFilterColumns 订单列表允许过滤的字段
var orderFilterColumns = map[string]string{
	"customer_id": "customer_id",
	"cart_id":     "cart_id",
	"status":      "status",
	"total":       "total",
}

// orderRepository 订单仓储实现
// 教学要点:
// 1. Order和OrderItem是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载明细,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// orderSavePoint 订单插入前的保存点
const orderSavePoint = "before_order_insert"

// Create 创建订单
// GORM会在同一事务里自动保存关联的Items
// 在事务中时先设置保存点:订单号冲突后回滚到保存点,调用方可以换号重试
// (PostgreSQL里失败的语句会让整个事务失效,必须回滚到保存点)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	db := dbFrom(ctx, r.db)
	tx := inTransaction(ctx)
	if tx {
		if err := db.SavePoint(orderSavePoint).Error; err != nil {
			return apperrors.Wrap(err, "设置保存点失败")
		}
	}

	model := toOrderModel(o)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			if tx {
				if rbErr := db.RollbackTo(orderSavePoint).Error; rbErr != nil {
					return apperrors.Wrap(rbErr, "回滚到保存点失败")
				}
			}
			return order.ErrOrderNoGenerate.WithCause(err)
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 根据ID查找订单
// Preload("Items")会执行:
// 1. SELECT * FROM orders WHERE id = ?
// 2. SELECT * FROM order_items WHERE order_id IN (?)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	if err := dbFrom(ctx, r.db).Preload("Items").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := dbFrom(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}
	return toOrderEntity(&model), nil
}

// List 按过滤条件分页查询
func (r *orderRepository) List(ctx context.Context, filters []query.Filter, page query.Pagination) ([]*order.Order, int64, error) {
	scope, err := filterScope(filters, orderFilterColumns)
	if err != nil {
		return nil, 0, err
	}

	db := dbFrom(ctx, r.db).Model(&OrderModel{}).Scopes(scope).Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	var models []OrderModel
	if err := db.Preload("Items").Scopes(paginate(page)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			BookID:     item.BookID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.TotalPrice,
		}
	}
	return &OrderModel{
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		CartID:        o.CartID,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total,
		Status:        int(o.Status),
		Items:         items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			ID:         item.ID,
			OrderID:    item.OrderID,
			BookID:     item.BookID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.TotalPrice,
		}
	}
	return &order.Order{
		ID:            model.ID,
		OrderNo:       model.OrderNo,
		CustomerID:    model.CustomerID,
		CartID:        model.CartID,
		PaymentMethod: order.PaymentMethod(model.PaymentMethod),
		Status:        order.OrderStatus(model.Status),
		Total:         model.Total,
		Items:         items,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
