package dto

import "github.com/xiebiao/bookcart/internal/domain/inventory"

// InventoryResponse 库存
type InventoryResponse struct {
	BookID     uint   `json:"book_id" example:"1"`
	Stock      int    `json:"stock" example:"100"`
	OutOfStock bool   `json:"out_of_stock" example:"false"`
	UpdatedAt  string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// InventoryLogResponse 库存变更日志
type InventoryLogResponse struct {
	ID          uint   `json:"id" example:"1"`
	ChangeType  string `json:"change_type" example:"RESERVE"`
	Quantity    int    `json:"quantity" example:"-2"`
	BeforeStock int    `json:"before_stock" example:"10"`
	AfterStock  int    `json:"after_stock" example:"8"`
	OrderID     uint   `json:"order_id,omitempty" example:"1"`
	Remark      string `json:"remark,omitempty"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
}

func ToInventoryResponse(inv *inventory.Inventory) *InventoryResponse {
	return &InventoryResponse{
		BookID:     inv.BookID,
		Stock:      inv.Stock,
		OutOfStock: inv.IsOutOfStock(),
		UpdatedAt:  formatTime(inv.UpdatedAt),
	}
}

func ToInventoryLogResponses(logs []*inventory.Log) []InventoryLogResponse {
	out := make([]InventoryLogResponse, len(logs))
	for i, l := range logs {
		out[i] = InventoryLogResponse{
			ID:          l.ID,
			ChangeType:  string(l.ChangeType),
			Quantity:    l.Quantity,
			BeforeStock: l.BeforeStock,
			AfterStock:  l.AfterStock,
			OrderID:     l.OrderID,
			Remark:      l.Remark,
			CreatedAt:   formatTime(l.CreatedAt),
		}
	}
	return out
}
