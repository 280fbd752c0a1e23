// Package query 定义仓储层通用的过滤与分页约定
//
// 仓储接收一组Filter和一个Pagination，按id升序返回当前页的数据。
// Filter只描述"查什么"，SQL翻译由具体仓储负责。
package query

import (
	"fmt"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// ErrInvalidFilter 过滤字段不在白名单内或操作数不合法
var ErrInvalidFilter = apperrors.New(apperrors.ErrCodeInvalidParams, "过滤条件不合法")

// Op 过滤操作符
type Op string

const (
	OpEqual              Op = "eq"
	OpBetween            Op = "between"
	OpLessThanOrEqual    Op = "lte"
	OpGreaterThanOrEqual Op = "gte"
	OpIn                 Op = "in"
)

// Filter 单个过滤条件
type Filter struct {
	Field  string
	Op     Op
	Values []interface{}
}

// Eq 等值过滤
func Eq(field string, v interface{}) Filter {
	return Filter{Field: field, Op: OpEqual, Values: []interface{}{v}}
}

// Between 闭区间过滤
func Between(field string, from, to interface{}) Filter {
	return Filter{Field: field, Op: OpBetween, Values: []interface{}{from, to}}
}

// Lte 小于等于
func Lte(field string, v interface{}) Filter {
	return Filter{Field: field, Op: OpLessThanOrEqual, Values: []interface{}{v}}
}

// Gte 大于等于
func Gte(field string, v interface{}) Filter {
	return Filter{Field: field, Op: OpGreaterThanOrEqual, Values: []interface{}{v}}
}

// In 集合过滤
func In(field string, vs ...interface{}) Filter {
	return Filter{Field: field, Op: OpIn, Values: vs}
}

// Validate 校验操作数个数
func (f Filter) Validate() error {
	if f.Field == "" {
		return fmt.Errorf("过滤字段不能为空")
	}
	switch f.Op {
	case OpEqual, OpLessThanOrEqual, OpGreaterThanOrEqual:
		if len(f.Values) != 1 {
			return fmt.Errorf("%s 需要1个操作数, 实际%d个", f.Op, len(f.Values))
		}
	case OpBetween:
		if len(f.Values) != 2 {
			return fmt.Errorf("between 需要2个操作数, 实际%d个", len(f.Values))
		}
	case OpIn:
		if len(f.Values) == 0 {
			return fmt.Errorf("in 至少需要1个操作数")
		}
	default:
		return fmt.Errorf("不支持的操作符: %s", f.Op)
	}
	return nil
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination 分页参数（page从1开始）
type Pagination struct {
	Page  int
	Limit int
}

// Normalize 填充默认值并限制最大页大小
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset 当前页的偏移量
func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// NewPageResult 构造分页结果
func NewPageResult[T any](items []T, total int64, p Pagination) *PageResult[T] {
	n := p.Normalize()
	return &PageResult[T]{Items: items, Total: total, Page: n.Page, Limit: n.Limit}
}
