package dto

import "github.com/xiebiao/bookcart/internal/domain/order"

// CreateOrderRequest HTTP下单请求
type CreateOrderRequest struct {
	CartID        uint   `json:"cart_id" binding:"required,min=1" example:"1"`
	PaymentMethod string `json:"payment_method" binding:"required" example:"credit_card"`
}

// ListOrdersRequest 订单列表查询,customer_id不传默认为当前用户
type ListOrdersRequest struct {
	PageQuery
	CustomerID uint `form:"customer_id" binding:"omitempty,min=1" example:"1"`
}

// OrderItemResponse 订单明细(下单时快照)
type OrderItemResponse struct {
	BookID     uint   `json:"book_id" example:"1"`
	Quantity   int    `json:"quantity" example:"2"`
	Price      int64  `json:"price" example:"5900"`
	TotalPrice int64  `json:"total_price" example:"11800"`
	PriceYuan  string `json:"price_yuan" example:"59.00"`
}

// OrderResponse 订单
type OrderResponse struct {
	ID            uint                `json:"id" example:"1"`
	OrderNo       string              `json:"order_no" example:"ORD20241106103000A1B2C3D4"`
	CustomerID    uint                `json:"customer_id" example:"1"`
	CartID        uint                `json:"cart_id" example:"1"`
	PaymentMethod string              `json:"payment_method" example:"credit_card"`
	Status        string              `json:"status" example:"pending"`
	Total         int64               `json:"total" example:"11800"`
	TotalYuan     string              `json:"total_yuan" example:"118.00"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at" example:"2024-11-06 10:30:00"`
}

// ToOrderResponse 领域实体 → DTO
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			BookID:     it.BookID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
			PriceYuan:  FormatPriceYuan(it.Price),
		}
	}
	return &OrderResponse{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		CustomerID:    o.CustomerID,
		CartID:        o.CartID,
		PaymentMethod: string(o.PaymentMethod),
		Status:        o.Status.String(),
		Total:         o.Total,
		TotalYuan:     FormatPriceYuan(o.Total),
		Items:         items,
		CreatedAt:     formatTime(o.CreatedAt),
	}
}

// ToOrderResponses 列表转换
func ToOrderResponses(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToOrderResponse(o)
	}
	return out
}
