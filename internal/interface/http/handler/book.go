package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcart/internal/application/book"
	"github.com/xiebiao/bookcart/internal/interface/http/dto"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBookUseCase *appbook.PublishBookUseCase
	listBooksUseCase   *appbook.ListBooksUseCase
	getBookUseCase     *appbook.GetBookUseCase
	updatePriceUseCase *appbook.UpdatePriceUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBookUseCase *appbook.PublishBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	updatePriceUseCase *appbook.UpdatePriceUseCase,
) *BookHandler {
	return &BookHandler{
		publishBookUseCase: publishBookUseCase,
		listBooksUseCase:   listBooksUseCase,
		getBookUseCase:     getBookUseCase,
		updatePriceUseCase: updatePriceUseCase,
	}
}

// PublishBook 发布图书(上架)
// @Summary      发布图书
// @Description  会员发布图书商品上架,同时创建库存记录
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      422 {object} response.Response "ISBN已存在"
// @Router       /books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.publishBookUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Draft: req.ToDraft(middleware.MustGetUserID(c)),
		Stock: req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToBookResponse(result.Book, result.Stock))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  关键字搜索标题/作者/出版社,支持价格区间过滤
// @Tags         图书
// @Produce      json
// @Param        keyword   query string false "关键字"
// @Param        min_price query int    false "最低价(分)"
// @Param        max_price query int    false "最高价(分)"
// @Param        page      query int    false "页码" default(1)
// @Param        limit     query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BookListItem}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Keyword:  req.Keyword,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Page:     toPagination(req.PageQuery),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, dto.ToBookListItems(result.Items), result.Total, result.Page, result.Limit)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookDetailResponse(detail))
}

// UpdatePrice 修改图书价格
// @Summary      修改价格
// @Description  只有发布者可以改价,已在购物车中的明细保留加入时的价格
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "图书ID"
// @Param        request body dto.UpdatePriceRequest true "新价格"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      403 {object} response.Response "不是发布者"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id}/price [patch]
func (h *BookHandler) UpdatePrice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if _, err := h.updatePriceUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c), req.Price); err != nil {
		response.Error(c, err)
		return
	}

	// 返回带库存的最新详情
	detail, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBookDetailResponse(detail))
}
