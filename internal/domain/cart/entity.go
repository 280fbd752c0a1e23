package cart

import (
	"math"
	"time"
)

// Status 购物车状态
// 状态机只有一条边：active → inactive（下单成功时），且不可逆
type Status int

const (
	StatusActive   Status = 1 // 可修改
	StatusInactive Status = 2 // 已下单，冻结
)

// String 实现Stringer接口
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// DeliveryMethod 配送方式，空字符串表示尚未选择
type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// IsValid 校验配送方式
func (d DeliveryMethod) IsValid() bool {
	switch d {
	case "", DeliveryStandard, DeliveryExpress, DeliveryPickup:
		return true
	}
	return false
}

// LineItem 购物车明细
// 教学要点:
// 1. Price是加入购物车时的单价快照，之后图书改价不影响已有明细
// 2. TotalPrice = Quantity * Price，只能通过SetQuantity修改数量以保持一致
type LineItem struct {
	ID         uint
	CartID     uint
	BookID     uint
	Quantity   int
	Price      int64 // 单价(分)
	TotalPrice int64 // 小计(分)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLineItem 创建明细，数量必须为正
func NewLineItem(cartID, bookID uint, quantity int, price int64) (*LineItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if !amountFits(quantity, price) {
		return nil, ErrAmountOverflow
	}
	now := time.Now()
	li := &LineItem{
		CartID:    cartID,
		BookID:    bookID,
		Quantity:  quantity,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	li.recalculate()
	return li, nil
}

// SetQuantity 修改数量并重算小计
func (li *LineItem) SetQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if !amountFits(quantity, li.Price) {
		return ErrAmountOverflow
	}
	li.Quantity = quantity
	li.UpdatedAt = time.Now()
	li.recalculate()
	return nil
}

func (li *LineItem) recalculate() {
	li.TotalPrice = int64(li.Quantity) * li.Price
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// amountFits 数量不设业务上限,只保证小计不溢出int64
func amountFits(quantity int, price int64) bool {
	return price == 0 || int64(quantity) <= math.MaxInt64/price
}

// Draft 购物车可编辑字段，nil表示不修改
type Draft struct {
	BillingAddressID  *uint
	ShippingAddressID *uint
	DeliveryMethod    *DeliveryMethod
}

// Cart 购物车（聚合根）
// 教学要点:
// 1. LineItem只能通过Cart的方法增删改，保证 TotalPrice == sum(LineItems.TotalPrice)
// 2. 聚合方法只修改内存状态，返回Change交给应用层持久化
// 3. 地址只保存引用ID，地址簿不属于本聚合
type Cart struct {
	ID                uint
	CustomerID        uint
	Status            Status
	TotalPrice        int64 // 总价(分)
	BillingAddressID  *uint
	ShippingAddressID *uint
	DeliveryMethod    DeliveryMethod
	LineItems         []*LineItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewCart 创建空购物车
func NewCart(customerID uint) *Cart {
	now := time.Now()
	return &Cart{
		CustomerID: customerID,
		Status:     StatusActive,
		LineItems:  []*LineItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ChangeKind 明细变更类型
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeUpdated
	ChangeDeleted
)

// Change 一次聚合操作产生的明细变更
type Change struct {
	Kind ChangeKind
	Item *LineItem
}

// IsActive 是否可修改
func (c *Cart) IsActive() bool {
	return c.Status == StatusActive
}

// EnsureActive 已下单的购物车拒绝任何修改
func (c *Cart) EnsureActive() error {
	if !c.IsActive() {
		return ErrInvalidCartState
	}
	return nil
}

// IsOwnedBy 检查购物车是否属于指定顾客
func (c *Cart) IsOwnedBy(customerID uint) bool {
	return c.CustomerID == customerID
}

// IsEmpty 是否没有明细
func (c *Cart) IsEmpty() bool {
	return len(c.LineItems) == 0
}

// FindLineItem 按明细ID查找
func (c *Cart) FindLineItem(id uint) *LineItem {
	for _, li := range c.LineItems {
		if li.ID == id {
			return li
		}
	}
	return nil
}

// FindLineItemByBook 按图书查找（同一本书只有一条明细）
func (c *Cart) FindLineItemByBook(bookID uint) *LineItem {
	for _, li := range c.LineItems {
		if li.BookID == bookID {
			return li
		}
	}
	return nil
}

// AddItem 加入图书
// 已有该书的明细则累加数量（保持原单价），否则按price新建明细
func (c *Cart) AddItem(bookID uint, quantity int, price int64) (Change, error) {
	if err := c.EnsureActive(); err != nil {
		return Change{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Change{}, err
	}

	if existing := c.FindLineItemByBook(bookID); existing != nil {
		if existing.Quantity > math.MaxInt-quantity {
			return Change{}, ErrAmountOverflow
		}
		if err := existing.SetQuantity(existing.Quantity + quantity); err != nil {
			return Change{}, err
		}
		c.Recalculate()
		return Change{Kind: ChangeUpdated, Item: existing}, nil
	}

	li, err := NewLineItem(c.ID, bookID, quantity, price)
	if err != nil {
		return Change{}, err
	}
	c.LineItems = append(c.LineItems, li)
	c.Recalculate()
	return Change{Kind: ChangeCreated, Item: li}, nil
}

// RemoveItem 移除数量
// quantity >= 明细数量时删除整条明细（不报错，也不会出现负数）
func (c *Cart) RemoveItem(lineItemID uint, quantity int) (Change, error) {
	if err := c.EnsureActive(); err != nil {
		return Change{}, err
	}
	if quantity <= 0 {
		return Change{}, ErrInvalidQuantity
	}

	idx := -1
	for i, li := range c.LineItems {
		if li.ID == lineItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Change{}, ErrLineItemNotFound
	}

	li := c.LineItems[idx]
	if quantity >= li.Quantity {
		c.LineItems = append(c.LineItems[:idx], c.LineItems[idx+1:]...)
		c.Recalculate()
		return Change{Kind: ChangeDeleted, Item: li}, nil
	}

	if err := li.SetQuantity(li.Quantity - quantity); err != nil {
		return Change{}, err
	}
	c.Recalculate()
	return Change{Kind: ChangeUpdated, Item: li}, nil
}

// ApplyDraft 更新地址与配送方式，不影响金额
func (c *Cart) ApplyDraft(d Draft) error {
	if err := c.EnsureActive(); err != nil {
		return err
	}
	if d.DeliveryMethod != nil {
		if !d.DeliveryMethod.IsValid() {
			return ErrInvalidDeliveryMethod
		}
		c.DeliveryMethod = *d.DeliveryMethod
	}
	if d.BillingAddressID != nil {
		c.BillingAddressID = d.BillingAddressID
	}
	if d.ShippingAddressID != nil {
		c.ShippingAddressID = d.ShippingAddressID
	}
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate 下单后冻结购物车
func (c *Cart) Deactivate() error {
	if err := c.EnsureActive(); err != nil {
		return err
	}
	c.Status = StatusInactive
	c.UpdatedAt = time.Now()
	return nil
}

// Recalculate 按明细重算总价
func (c *Cart) Recalculate() {
	var total int64
	for _, li := range c.LineItems {
		total += li.TotalPrice
	}
	c.TotalPrice = total
	c.UpdatedAt = time.Now()
}

// TotalQuantity 所有明细的数量之和
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, li := range c.LineItems {
		n += li.Quantity
	}
	return n
}
