package mysql

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcart/pkg/query"
)

// isDuplicateError 判断是否为唯一索引冲突
// MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// PostgreSQL 23505: duplicate key value violates unique constraint
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "duplicate key value")
}

// filterScope 把query.Filter翻译为WHERE条件
// columns是允许过滤的列白名单,字段名来自外部输入,不在白名单内直接拒绝
func filterScope(filters []query.Filter, columns map[string]string) (func(*gorm.DB) *gorm.DB, error) {
	conds := make([]func(*gorm.DB) *gorm.DB, 0, len(filters))
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return nil, query.ErrInvalidFilter.WithCause(err)
		}
		col, ok := columns[f.Field]
		if !ok {
			return nil, query.ErrInvalidFilter.WithCause(fmt.Errorf("字段不允许过滤: %s", f.Field))
		}

		switch f.Op {
		case query.OpEqual:
			conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(col+" = ?", f.Values[0]) })
		case query.OpBetween:
			conds = append(conds, func(db *gorm.DB) *gorm.DB {
				return db.Where(col+" BETWEEN ? AND ?", f.Values[0], f.Values[1])
			})
		case query.OpLessThanOrEqual:
			conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(col+" <= ?", f.Values[0]) })
		case query.OpGreaterThanOrEqual:
			conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(col+" >= ?", f.Values[0]) })
		case query.OpIn:
			conds = append(conds, func(db *gorm.DB) *gorm.DB { return db.Where(col+" IN ?", f.Values) })
		}
	}

	return func(db *gorm.DB) *gorm.DB {
		for _, c := range conds {
			db = c(db)
		}
		return db
	}, nil
}

// paginate 分页scope,结果按id升序
func paginate(p query.Pagination) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC").Offset(p.Offset()).Limit(p.Limit)
	}
}
