package dto

import (
	appbook "github.com/xiebiao/bookcart/internal/application/book"
	"github.com/xiebiao/bookcart/internal/domain/book"
)

// PublishBookRequest HTTP上架请求
type PublishBookRequest struct {
	ISBN        string `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,max=100" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" binding:"required,max=100" example:"人民邮电出版社"`
	Price       int64  `json:"price" binding:"required,min=1,max=999999" example:"5900"` // 价格(分),59.00元
	Stock       int    `json:"stock" binding:"min=0" example:"100"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
}

// ToDraft 转换为领域层的上架信息
func (r *PublishBookRequest) ToDraft(publisherID uint) book.Draft {
	return book.Draft{
		ISBN:        r.ISBN,
		Title:       r.Title,
		Author:      r.Author,
		Publisher:   r.Publisher,
		Price:       r.Price,
		CoverURL:    r.CoverURL,
		Description: r.Description,
		PublisherID: publisherID,
	}
}

// UpdatePriceRequest 改价请求
type UpdatePriceRequest struct {
	Price int64 `json:"price" binding:"required,min=1,max=999999" example:"6900"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID          uint   `json:"id" example:"1"`
	ISBN        string `json:"isbn" example:"9787115428028"`
	Title       string `json:"title" example:"Go语言实战"`
	Author      string `json:"author" example:"威廉·肯尼迪"`
	Publisher   string `json:"publisher" example:"人民邮电出版社"`
	Price       int64  `json:"price" example:"5900"`       // 价格(分)
	PriceYuan   string `json:"price_yuan" example:"59.00"` // 价格(元),方便前端显示
	Stock       int    `json:"stock" example:"100"`
	CoverURL    string `json:"cover_url" example:"https://example.com/cover.jpg"`
	Description string `json:"description,omitempty" example:"这是一本关于Go语言的实战书籍"`
	PublisherID uint   `json:"publisher_id" example:"1"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt   string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// BookListItem 列表项,不返回Description
type BookListItem struct {
	ID        uint   `json:"id" example:"1"`
	ISBN      string `json:"isbn" example:"9787115428028"`
	Title     string `json:"title" example:"Go语言实战"`
	Author    string `json:"author" example:"威廉·肯尼迪"`
	Publisher string `json:"publisher" example:"人民邮电出版社"`
	Price     int64  `json:"price" example:"5900"`
	PriceYuan string `json:"price_yuan" example:"59.00"`
	CoverURL  string `json:"cover_url" example:"https://example.com/cover.jpg"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	PageQuery
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	MinPrice int64  `form:"min_price" binding:"omitempty,min=1" example:"1000"`
	MaxPrice int64  `form:"max_price" binding:"omitempty,min=1" example:"9900"`
}

// ToBookResponse 领域实体 → DTO
func ToBookResponse(b *book.Book, stock int) *BookResponse {
	return &BookResponse{
		ID:          b.ID,
		ISBN:        b.ISBN,
		Title:       b.Title,
		Author:      b.Author,
		Publisher:   b.Publisher,
		Price:       b.Price,
		PriceYuan:   FormatPriceYuan(b.Price),
		Stock:       stock,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		PublisherID: b.PublisherID,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

// ToBookDetailResponse 详情(含库存)
func ToBookDetailResponse(d *appbook.BookDetail) *BookResponse {
	return ToBookResponse(d.Book, d.Stock)
}

// ToBookListItems 列表转换
func ToBookListItems(books []*book.Book) []BookListItem {
	items := make([]BookListItem, len(books))
	for i, b := range books {
		items[i] = BookListItem{
			ID:        b.ID,
			ISBN:      b.ISBN,
			Title:     b.Title,
			Author:    b.Author,
			Publisher: b.Publisher,
			Price:     b.Price,
			PriceYuan: FormatPriceYuan(b.Price),
			CoverURL:  b.CoverURL,
			CreatedAt: formatTime(b.CreatedAt),
		}
	}
	return items
}
