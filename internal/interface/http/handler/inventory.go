package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/xiebiao/bookcart/internal/application/inventory"
	"github.com/xiebiao/bookcart/internal/interface/http/dto"
	"github.com/xiebiao/bookcart/pkg/response"
)

// InventoryHandler 库存HTTP处理器(只读)
type InventoryHandler struct {
	getInventoryUseCase *appinventory.GetInventoryUseCase
	listLogsUseCase     *appinventory.ListLogsUseCase
}

func NewInventoryHandler(
	getInventoryUseCase *appinventory.GetInventoryUseCase,
	listLogsUseCase *appinventory.ListLogsUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		getInventoryUseCase: getInventoryUseCase,
		listLogsUseCase:     listLogsUseCase,
	}
}

// GetInventory 查询库存
// @Summary      查询库存
// @Tags         库存
// @Produce      json
// @Param        book_id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.InventoryResponse}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /inventories/{book_id} [get]
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}

	inv, err := h.getInventoryUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToInventoryResponse(inv))
}

// ListLogs 库存变更日志
// @Summary      库存变更日志
// @Tags         库存
// @Produce      json
// @Security     BearerAuth
// @Param        book_id path  int true  "图书ID"
// @Param        page    query int false "页码" default(1)
// @Param        limit   query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.InventoryLogResponse}}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /inventories/{book_id}/logs [get]
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	bookID, ok := pathID(c, "book_id")
	if !ok {
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listLogsUseCase.Execute(c.Request.Context(), bookID, toPagination(page))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, dto.ToInventoryLogResponses(result.Items), result.Total, result.Page, result.Limit)
}
