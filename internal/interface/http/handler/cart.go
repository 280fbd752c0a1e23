package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookcart/internal/application/cart"
	"github.com/xiebiao/bookcart/internal/interface/http/dto"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/pkg/response"
)

// CartHandler 购物车HTTP处理器
// 所有接口都需要登录,顾客ID取自JWT,只能操作自己的购物车
type CartHandler struct {
	createCartUseCase     *appcart.CreateCartUseCase
	getCartUseCase        *appcart.GetCartUseCase
	updateCartUseCase     *appcart.UpdateCartUseCase
	deleteCartUseCase     *appcart.DeleteCartUseCase
	addLineItemUseCase    *appcart.AddLineItemUseCase
	removeLineItemUseCase *appcart.RemoveLineItemUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	createCartUseCase *appcart.CreateCartUseCase,
	getCartUseCase *appcart.GetCartUseCase,
	updateCartUseCase *appcart.UpdateCartUseCase,
	deleteCartUseCase *appcart.DeleteCartUseCase,
	addLineItemUseCase *appcart.AddLineItemUseCase,
	removeLineItemUseCase *appcart.RemoveLineItemUseCase,
) *CartHandler {
	return &CartHandler{
		createCartUseCase:     createCartUseCase,
		getCartUseCase:        getCartUseCase,
		updateCartUseCase:     updateCartUseCase,
		deleteCartUseCase:     deleteCartUseCase,
		addLineItemUseCase:    addLineItemUseCase,
		removeLineItemUseCase: removeLineItemUseCase,
	}
}

// CreateCart 创建购物车
// @Summary      创建购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} response.Response{data=dto.CartResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /carts [post]
func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.createCartUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToCartResponse(cart))
}

// GetCart 查询购物车
// @Summary      查询购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      403 {object} response.Response "不是自己的购物车"
// @Failure      404 {object} response.Response "购物车不存在"
// @Router       /carts/{id} [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	cart, err := h.getCartUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCartResponse(cart))
}

// UpdateCart 修改地址和配送方式
// @Summary      修改购物车
// @Description  只修改账单地址、收货地址和配送方式,不传的字段保持不变
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "购物车ID"
// @Param        request body dto.UpdateCartRequest true "草稿信息"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      409 {object} response.Response "购物车已下单"
// @Router       /carts/{id} [patch]
func (h *CartHandler) UpdateCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cart, err := h.updateCartUseCase.Execute(c.Request.Context(), appcart.UpdateCartRequest{
		CartID:     id,
		CustomerID: middleware.MustGetUserID(c),
		Draft:      req.ToDraft(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCartResponse(cart))
}

// DeleteCart 删除购物车
// @Summary      删除购物车
// @Tags         购物车
// @Security     BearerAuth
// @Param        id path int true "购物车ID"
// @Success      204 "已删除"
// @Failure      409 {object} response.Response "购物车已下单"
// @Router       /carts/{id} [delete]
func (h *CartHandler) DeleteCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.deleteCartUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddLineItem 加入购物车
// @Summary      加入购物车
// @Description  同一本书再次加入时合并数量,价格取当前图书价格
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "购物车ID"
// @Param        request body dto.AddLineItemRequest true "图书和数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "购物车已下单"
// @Router       /carts/{id}/add-line-item [post]
func (h *CartHandler) AddLineItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cart, err := h.addLineItemUseCase.Execute(c.Request.Context(), appcart.AddLineItemRequest{
		CartID:     id,
		CustomerID: middleware.MustGetUserID(c),
		BookID:     req.BookID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCartResponse(cart))
}

// RemoveLineItem 从购物车移除
// @Summary      从购物车移除
// @Description  数量大于等于持有数量时删除整行
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                       true "购物车ID"
// @Param        request body dto.RemoveLineItemRequest true "明细和数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Failure      404 {object} response.Response "明细不存在"
// @Failure      409 {object} response.Response "购物车已下单"
// @Router       /carts/{id}/remove-line-item [post]
func (h *CartHandler) RemoveLineItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RemoveLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cart, err := h.removeLineItemUseCase.Execute(c.Request.Context(), appcart.RemoveLineItemRequest{
		CartID:     id,
		CustomerID: middleware.MustGetUserID(c),
		LineItemID: req.LineItemID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToCartResponse(cart))
}
