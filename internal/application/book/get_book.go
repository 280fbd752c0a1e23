package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
)

// BookDetail 图书详情(附带当前库存)
type BookDetail struct {
	Book  *book.Book
	Stock int
}

// GetBookUseCase 图书详情查询
type GetBookUseCase struct {
	bookService book.Service
	inventories inventory.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, inventories inventory.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, inventories: inventories}
}

// Execute 没有库存记录的图书按0库存展示
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{Book: b}
	inv, err := uc.inventories.FindInventory(ctx, id)
	switch {
	case err == nil:
		detail.Stock = inv.Stock
	case errors.Is(err, inventory.ErrInventoryNotFound):
	default:
		return nil, err
	}
	return detail, nil
}

// UpdatePriceUseCase 修改图书价格
// 已在购物车中的明细保留加入时的价格
type UpdatePriceUseCase struct {
	bookService book.Service
}

// NewUpdatePriceUseCase 创建改价用例
func NewUpdatePriceUseCase(bookService book.Service) *UpdatePriceUseCase {
	return &UpdatePriceUseCase{bookService: bookService}
}

// Execute 只有发布者可以改价
func (uc *UpdatePriceUseCase) Execute(ctx context.Context, bookID, userID uint, newPrice int64) (*book.Book, error) {
	return uc.bookService.UpdateBookPrice(ctx, bookID, userID, newPrice)
}
