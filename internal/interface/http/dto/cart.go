package dto

import "github.com/xiebiao/bookcart/internal/domain/cart"

// UpdateCartRequest 修改购物车草稿信息,不传的字段保持不变
type UpdateCartRequest struct {
	BillingAddressID  *uint   `json:"billing_address_id" binding:"omitempty,min=1" example:"1"`
	ShippingAddressID *uint   `json:"shipping_address_id" binding:"omitempty,min=1" example:"2"`
	DeliveryMethod    *string `json:"delivery_method" binding:"omitempty,oneof=standard express pickup" example:"express"`
}

// ToDraft 转换为领域草稿
func (r *UpdateCartRequest) ToDraft() cart.Draft {
	d := cart.Draft{
		BillingAddressID:  r.BillingAddressID,
		ShippingAddressID: r.ShippingAddressID,
	}
	if r.DeliveryMethod != nil {
		m := cart.DeliveryMethod(*r.DeliveryMethod)
		d.DeliveryMethod = &m
	}
	return d
}

// AddLineItemRequest 加入购物车
type AddLineItemRequest struct {
	BookID   uint `json:"book_id" binding:"required,min=1" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// RemoveLineItemRequest 从购物车移除,数量大于等于持有数量时删除整行
type RemoveLineItemRequest struct {
	LineItemID uint `json:"line_item_id" binding:"required,min=1" example:"1"`
	Quantity   int  `json:"quantity" binding:"required,min=1" example:"1"`
}

// LineItemResponse 购物车明细
type LineItemResponse struct {
	ID             uint   `json:"id" example:"1"`
	BookID         uint   `json:"book_id" example:"1"`
	Quantity       int    `json:"quantity" example:"2"`
	Price          int64  `json:"price" example:"5900"`
	PriceYuan      string `json:"price_yuan" example:"59.00"`
	TotalPrice     int64  `json:"total_price" example:"11800"`
	TotalPriceYuan string `json:"total_price_yuan" example:"118.00"`
}

// CartResponse 购物车
type CartResponse struct {
	ID                uint               `json:"id" example:"1"`
	CustomerID        uint               `json:"customer_id" example:"1"`
	Status            string             `json:"status" example:"active"`
	TotalPrice        int64              `json:"total_price" example:"11800"`
	TotalPriceYuan    string             `json:"total_price_yuan" example:"118.00"`
	BillingAddressID  *uint              `json:"billing_address_id"`
	ShippingAddressID *uint              `json:"shipping_address_id"`
	DeliveryMethod    string             `json:"delivery_method,omitempty" example:"express"`
	LineItems         []LineItemResponse `json:"line_items"`
	CreatedAt         string             `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt         string             `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ToCartResponse 领域实体 → DTO
func ToCartResponse(c *cart.Cart) *CartResponse {
	items := make([]LineItemResponse, len(c.LineItems))
	for i, li := range c.LineItems {
		items[i] = LineItemResponse{
			ID:             li.ID,
			BookID:         li.BookID,
			Quantity:       li.Quantity,
			Price:          li.Price,
			PriceYuan:      FormatPriceYuan(li.Price),
			TotalPrice:     li.TotalPrice,
			TotalPriceYuan: FormatPriceYuan(li.TotalPrice),
		}
	}
	return &CartResponse{
		ID:                c.ID,
		CustomerID:        c.CustomerID,
		Status:            c.Status.String(),
		TotalPrice:        c.TotalPrice,
		TotalPriceYuan:    FormatPriceYuan(c.TotalPrice),
		BillingAddressID:  c.BillingAddressID,
		ShippingAddressID: c.ShippingAddressID,
		DeliveryMethod:    string(c.DeliveryMethod),
		LineItems:         items,
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}
