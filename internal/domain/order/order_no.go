package order

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// orderNoPrefix 订单号前缀
const orderNoPrefix = "ORD"

// GenerateOrderNo 生成订单号
// 教学要点:订单号设计原则
// 1. 全局唯一(随机部分 + 数据库唯一索引兜底)
// 2. 包含时间信息,客服可以直接看出下单时间
// 3. 不可预测(防止恶意遍历)
//
// 格式:ORD + yyyyMMddHHmmss + 8位大写十六进制(取自随机UUID)
// 示例:ORD20251106123456A1B2C3D4
func GenerateOrderNo() string {
	return formatOrderNo(time.Now(), uuid.New())
}

func formatOrderNo(now time.Time, id uuid.UUID) string {
	return orderNoPrefix + now.Format("20060102150405") + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// ValidateOrderNo 验证订单号格式
func ValidateOrderNo(orderNo string) bool {
	if len(orderNo) != len(orderNoPrefix)+14+8 || !strings.HasPrefix(orderNo, orderNoPrefix) {
		return false
	}
	if _, err := time.Parse("20060102150405", orderNo[3:17]); err != nil {
		return false
	}
	for _, c := range orderNo[17:] {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
