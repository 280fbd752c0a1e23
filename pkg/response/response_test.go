package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError(t *testing.T) {
	t.Run("业务错误使用映射后的状态码", func(t *testing.T) {
		w := perform(func(c *gin.Context) {
			Error(c, apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足"))
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		body := decode(t, w)
		assert.Equal(t, apperrors.ErrCodeInsufficientStock, body.Code)
		assert.Equal(t, "库存不足", body.Message)
	})

	t.Run("未知错误隐藏内部细节", func(t *testing.T) {
		w := perform(func(c *gin.Context) {
			Error(c, fmt.Errorf("dial tcp 10.0.0.1:3306: i/o timeout"))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, apperrors.ErrCodeInternal, body.Code)
		assert.NotContains(t, body.Message, "10.0.0.1")
	})
}

func TestCreatedAndNoContent(t *testing.T) {
	w := perform(func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(func(c *gin.Context) {
		NoContent(c)
		c.Writer.WriteHeaderNow()
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNewPageData(t *testing.T) {
	p := NewPageData([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPageData([]int{}, 0, 1, 10)
	assert.Equal(t, 0, p.TotalPages)
}
