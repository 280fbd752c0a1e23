package inventory

import "time"

// Inventory 库存记录
// 教学要点:
// 1. 以BookID为主键，一本书只有一条库存记录
// 2. Stock只能通过Reserve扣减，任何时刻都不能为负
// 3. 补货不在本服务范围内，库存随图书上架一起创建
type Inventory struct {
	BookID    uint
	Stock     int // 可用库存
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewInventory 创建库存记录
func NewInventory(bookID uint, stock int) (*Inventory, error) {
	if bookID == 0 {
		return nil, ErrInvalidBookID
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	now := time.Now()
	return &Inventory{
		BookID:    bookID,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanDeduct 判断是否可以扣减
func (i *Inventory) CanDeduct(quantity int) bool {
	return quantity > 0 && i.Stock >= quantity
}

// IsOutOfStock 是否缺货
func (i *Inventory) IsOutOfStock() bool {
	return i.Stock <= 0
}

// Reservation 一次成功扣减的结果，用于写审计日志
type Reservation struct {
	BookID      uint
	Quantity    int
	StockBefore int
	StockAfter  int
}

// ChangeType 库存变更类型
type ChangeType string

const (
	ChangeTypeReserve ChangeType = "RESERVE" // 下单扣减
	ChangeTypeInit    ChangeType = "INIT"    // 上架时的初始库存
)

// Log 库存变更日志（只增不改）
type Log struct {
	ID          uint
	BookID      uint
	ChangeType  ChangeType
	Quantity    int // 正数增加，负数减少
	BeforeStock int
	AfterStock  int
	OrderID     uint // 关联订单，INIT日志为0
	Remark      string
	CreatedAt   time.Time
}

// NewReserveLog 根据扣减结果生成日志
func NewReserveLog(r Reservation, orderID uint) *Log {
	return &Log{
		BookID:      r.BookID,
		ChangeType:  ChangeTypeReserve,
		Quantity:    -r.Quantity,
		BeforeStock: r.StockBefore,
		AfterStock:  r.StockAfter,
		OrderID:     orderID,
		CreatedAt:   time.Now(),
	}
}

// NewInitLog 上架时记录初始库存
func NewInitLog(inv *Inventory) *Log {
	return &Log{
		BookID:      inv.BookID,
		ChangeType:  ChangeTypeInit,
		Quantity:    inv.Stock,
		BeforeStock: 0,
		AfterStock:  inv.Stock,
		Remark:      "图书上架",
		CreatedAt:   time.Now(),
	}
}
