package order

import (
	"time"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 本服务只创建订单,后续的支付、发货状态由履约系统推进
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1 // 待支付
	OrderStatusPaid      OrderStatus = 2 // 已支付
	OrderStatusShipped   OrderStatus = 3 // 已发货
	OrderStatusCompleted OrderStatus = 4 // 已完成
	OrderStatusCancelled OrderStatus = 5 // 已取消
)

// String 实现Stringer接口(接口响应和日志使用)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusPaid:
		return "paid"
	case OrderStatusShipped:
		return "shipped"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PaymentMethod 支付方式
// 只记录顾客的选择,不对接支付网关
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "credit_card"
	PaymentDebitCard      PaymentMethod = "debit_card"
	PaymentPaypal         PaymentMethod = "paypal"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// IsValid 校验支付方式
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentBankTransfer, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. 订单是下单时刻购物车的快照,创建后不再随购物车或库存变化
// 2. OrderNo是对外展示的业务单号,ID是内部主键
// 3. Total价格冗余存储(避免重复计算,防止改价攻击)
type Order struct {
	ID            uint
	OrderNo       string // 订单号(业务主键,全局唯一)
	CustomerID    uint   // 下单顾客
	CartID        uint   // 来源购物车
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Total         int64       // 订单总金额(分)
	Items         []OrderItem // 订单明细快照
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem 订单明细项
// 教学要点:
// 1. 不是独立聚合根,必须通过Order访问
// 2. Price字段记录"加入购物车时的价格"(历史价格快照)
// 3. 不直接关联Book对象,只保存BookID(避免跨聚合引用)
type OrderItem struct {
	ID         uint
	OrderID    uint
	BookID     uint
	Quantity   int
	Price      int64 // 单价(分)
	TotalPrice int64 // 小计(分)
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为Pending,明细不能为空
func NewOrder(orderNo string, customerID, cartID uint, method PaymentMethod, items []OrderItem) (*Order, error) {
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if len(items) == 0 {
		return nil, ErrInvalidOrderItems
	}
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		items[i].TotalPrice = items[i].Price * int64(items[i].Quantity)
	}

	now := time.Now()
	o := &Order{
		OrderNo:       orderNo,
		CustomerID:    customerID,
		CartID:        cartID,
		PaymentMethod: method,
		Status:        OrderStatusPending,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.Total = o.CalculateTotal()
	return o, nil
}

// CalculateTotal 根据明细计算订单总金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定顾客
func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
