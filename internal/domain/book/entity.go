package book

import (
	"strings"
	"time"
)

// Book 图书实体
// 对购物车和订单来说图书是只读协作者:加入购物车时读取Price作为快照,
// 之后改价不影响已有明细。库存由inventory聚合单独管理
type Book struct {
	ID          uint
	ISBN        string // 业务唯一标识,存储时去掉分隔符
	Title       string
	Author      string
	Publisher   string
	Price       int64 // 分
	CoverURL    string
	Description string
	PublisherID uint // 上架的用户,只有他能改价
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft 上架时由调用方提供的图书信息
type Draft struct {
	ISBN        string
	Title       string
	Author      string
	Publisher   string
	Price       int64
	CoverURL    string
	Description string
	PublisherID uint
}

// newBook 由已校验的Draft生成实体
func newBook(d Draft, now time.Time) *Book {
	return &Book{
		ISBN:        normalizeISBN(d.ISBN),
		Title:       strings.TrimSpace(d.Title),
		Author:      strings.TrimSpace(d.Author),
		Publisher:   strings.TrimSpace(d.Publisher),
		Price:       d.Price,
		CoverURL:    d.CoverURL,
		Description: d.Description,
		PublisherID: d.PublisherID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ChangePrice 改价,只影响之后加入购物车的明细
func (b *Book) ChangePrice(requesterID uint, price int64) error {
	if b.PublisherID != requesterID {
		return ErrForbidden
	}
	if !validPrice(price) {
		return ErrInvalidPrice
	}
	b.Price = price
	b.UpdatedAt = time.Now()
	return nil
}

func validPrice(price int64) bool {
	return price >= MinPrice && price <= MaxPrice
}
