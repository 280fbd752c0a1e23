package order

import (
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrEmptyCart 空购物车不能下单
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车为空，无法下单")

	// ErrForbidden 访问他人的订单
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "无权访问此订单")

	// ErrOrderNoGenerate 订单号生成失败(唯一索引冲突)
	ErrOrderNoGenerate = apperrors.New(apperrors.ErrCodeInternal, "订单号生成失败")

	// ErrInvalidPaymentMethod 不支持的支付方式
	ErrInvalidPaymentMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "不支持的支付方式")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")
)
