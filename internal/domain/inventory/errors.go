package inventory

import (
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrInventoryNotFound 库存记录不存在
	ErrInventoryNotFound = apperrors.New(apperrors.ErrCodeInventoryNotFound, "库存记录不存在")

	// ErrInsufficientStock 库存不足
	// 具体的图书和数量通过WithCause附加，只写日志
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	ErrInvalidBookID   = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的图书ID")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "扣减数量必须大于0")
	ErrNegativeStock   = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")
)
