package book

import (
	"context"

	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/pkg/query"
)

// ListBooksUseCase 图书列表查询用例
// 列表不返回description字段,由HTTP层DTO裁剪
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Keyword  string // 搜索标题、作者、出版社
	MinPrice int64  // 0表示不限
	MaxPrice int64  // 0表示不限
	Page     query.Pagination
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*query.PageResult[*book.Book], error) {
	var filters []query.Filter
	switch {
	case req.MinPrice > 0 && req.MaxPrice > 0:
		if req.MinPrice > req.MaxPrice {
			return nil, query.ErrInvalidFilter
		}
		filters = append(filters, query.Between("price", req.MinPrice, req.MaxPrice))
	case req.MinPrice > 0:
		filters = append(filters, query.Gte("price", req.MinPrice))
	case req.MaxPrice > 0:
		filters = append(filters, query.Lte("price", req.MaxPrice))
	}

	page := req.Page.Normalize()
	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Keyword: req.Keyword,
		Filters: filters,
		Page:    page,
	})
	if err != nil {
		return nil, err
	}
	return query.NewPageResult(books, total, page), nil
}
