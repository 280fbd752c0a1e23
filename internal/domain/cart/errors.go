package cart

import (
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrCartNotFound 购物车不存在
	ErrCartNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")

	// ErrLineItemNotFound 明细不存在或不属于该购物车
	ErrLineItemNotFound = apperrors.New(apperrors.ErrCodeLineItemNotFound, "购物车明细不存在")

	// ErrInvalidCartState 购物车已下单，不允许修改
	ErrInvalidCartState = apperrors.New(apperrors.ErrCodeInvalidCartState, "购物车已下单，不能再修改")

	// ErrForbidden 操作他人的购物车
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此购物车")

	ErrInvalidQuantity       = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	ErrAmountOverflow        = apperrors.New(apperrors.ErrCodeInvalidParams, "数量或金额超出范围")
	ErrInvalidPrice          = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")
	ErrInvalidDeliveryMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的配送方式")
)
