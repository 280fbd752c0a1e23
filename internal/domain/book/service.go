package book

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// 价格范围(分)
const (
	MinPrice int64 = 1
	MaxPrice int64 = 999999
)

// Service 图书领域服务接口
// 对购物车和订单而言,图书是只读的外部协作者:只提供存在性校验和当前价格
type Service interface {
	// PublishBook 发布图书(上架)
	// ISBN为10位或13位数字且不重复,书名非空,价格在1-999999分之间
	PublishBook(ctx context.Context, d Draft) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBookPrice 更新图书价格
	// 业务规则:只有发布者本人可以修改,且价格必须合法
	UpdateBookPrice(ctx context.Context, id uint, userID uint, newPrice int64) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, d Draft) (*Book, error) {
	if !isValidISBN(d.ISBN) {
		return nil, ErrInvalidISBN
	}
	if strings.TrimSpace(d.Title) == "" {
		return nil, ErrInvalidTitle
	}
	if !validPrice(d.Price) {
		return nil, ErrInvalidPrice
	}

	// 先查一次给出友好错误,并发重复由唯一索引兜底
	book := newBook(d, time.Now())
	existing, err := s.repo.FindByISBN(ctx, book.ISBN)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return nil, err
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	if id == 0 {
		return nil, ErrBookNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateBookPrice 更新图书价格
func (s *service) UpdateBookPrice(ctx context.Context, id uint, userID uint, newPrice int64) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := book.ChangePrice(userID, newPrice); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	params.Page = params.Page.Normalize()
	return s.repo.List(ctx, params)
}

var (
	isbnPattern   = regexp.MustCompile(`^[0-9][0-9\- ]*[0-9]$`)
	isbnSeparator = regexp.MustCompile(`[\- ]`)
)

// isValidISBN 校验ISBN格式
// 允许用-或空格分隔(如978-7-115-42802-8),去除后必须是10位或13位数字
// 简化实现:不校验校验位
func isValidISBN(isbn string) bool {
	if !isbnPattern.MatchString(isbn) {
		return false
	}
	clean := normalizeISBN(isbn)
	return len(clean) == 10 || len(clean) == 13
}

func normalizeISBN(isbn string) string {
	return isbnSeparator.ReplaceAllString(isbn, "")
}
