package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcart/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/query"
	"github.com/xiebiao/bookcart/pkg/response"
)

// pathID 解析路径中的正整数ID,失败时已写入400响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: 无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// toPagination HTTP分页参数 → 查询分页(缺省值由Normalize补齐)
func toPagination(p dto.PageQuery) query.Pagination {
	return query.Pagination{Page: p.Page, Limit: p.Limit}.Normalize()
}
