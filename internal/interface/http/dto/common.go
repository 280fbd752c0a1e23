package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatPriceYuan 格式化价格(分→元)
// 例如:5900分 → "59.00"
// 用decimal做定点换算,避免float64在大金额时丢精度
func FormatPriceYuan(priceFen int64) string {
	return decimal.New(priceFen, -2).StringFixed(2)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// PageQuery 分页查询参数
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100" example:"20"`
}
