package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookcart/internal/application/order"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/interface/http/dto"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrderUseCase *apporder.CreateOrderUseCase
	getOrderUseCase    *apporder.GetOrderUseCase
	listOrdersUseCase  *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrderUseCase *apporder.CreateOrderUseCase,
	getOrderUseCase *apporder.GetOrderUseCase,
	listOrdersUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUseCase: createOrderUseCase,
		getOrderUseCase:    getOrderUseCase,
		listOrdersUseCase:  listOrdersUseCase,
	}
}

// CreateOrder 购物车下单
// @Summary      创建订单
// @Description  把购物车转为订单:锁定购物车,按图书ID升序扣减库存,写入订单快照,购物车置为inactive
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "购物车和支付方式"
// @Success      201 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "不是自己的购物车"
// @Failure      404 {object} response.Response "购物车不存在"
// @Failure      409 {object} response.Response "库存不足或购物车已下单"
// @Failure      422 {object} response.Response "购物车为空"
// @Failure      429 {object} response.Response "下单过于频繁"
// @Router       /orders [post]
//
// 测试方法：
// 1. 创建库存为10的图书
// 2. 10个顾客各自的购物车里放5本,并发下单
// 3. 预期结果：只有2个请求成功（10÷5=2），其他8个返回库存不足,购物车仍可继续使用
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	o, err := h.createOrderUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		CartID:        req.CartID,
		CustomerID:    middleware.MustGetUserID(c),
		PaymentMethod: order.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToOrderResponse(o))
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  customer_id不传时查询当前用户,传入他人ID返回403
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query int false "顾客ID"
// @Param        page        query int false "页码" default(1)
// @Param        limit       query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.OrderResponse}}
// @Failure      403 {object} response.Response "无权查看"
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listOrdersUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		RequesterID: middleware.MustGetUserID(c),
		CustomerID:  req.CustomerID,
		Page:        toPagination(req.PageQuery),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToOrderResponses(result.Items), result.Total, result.Page, result.Limit)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  优先读Redis缓存,缓存不可用时回源数据库
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Failure      403 {object} response.Response "不是自己的订单"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.getOrderUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}
