package book

import (
	"context"

	"github.com/xiebiao/bookcart/pkg/query"
)

// Repository 图书仓储,实现在persistence/mysql
type Repository interface {
	// Create ISBN重复返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error
	FindByID(ctx context.Context, id uint) (*Book, error)
	// FindByISBN 参数为去掉分隔符后的ISBN
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	// Update 目前只会修改价格
	Update(ctx context.Context, book *Book) error
	// List 按id升序分页
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Keyword string         // 搜索关键词(标题、作者、出版社)
	Filters []query.Filter // 结构化过滤,如价格区间
	Page    query.Pagination
}
