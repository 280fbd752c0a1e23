package book

import (
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

var (
	ErrBookNotFound  = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")
	ErrInvalidISBN   = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN必须是10位或13位数字")
	ErrInvalidPrice  = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在0.01-9999.99元之间")
	ErrInvalidStock  = apperrors.New(apperrors.ErrCodeInvalidParams, "初始库存不能为负数")
	ErrInvalidTitle  = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrForbidden 非上架者改价
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "只有上架者可以修改价格")
)
