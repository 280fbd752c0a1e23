package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/response"
)

// idleLimiterTTL 超过该时间没有请求的限流器会被清理
const idleLimiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CustomerRateLimiter 按顾客限流(令牌桶)
// 必须挂在RequireAuth之后,未登录的请求按客户端IP限流
type CustomerRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

// NewCustomerRateLimiter perSecond为每秒补充的令牌数,burst为桶容量
func NewCustomerRateLimiter(perSecond float64, burst int) *CustomerRateLimiter {
	return &CustomerRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow 判断key是否还有令牌
func (l *CustomerRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.gc(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// gc 每分钟最多扫描一次,清理空闲的限流器
func (l *CustomerRateLimiter) gc(now time.Time) {
	if now.Sub(l.lastGC) < time.Minute {
		return
	}
	l.lastGC = now
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleLimiterTTL {
			delete(l.visitors, k)
		}
	}
}

// Middleware 超出限额返回429
func (l *CustomerRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if uid := GetUserID(c); uid != 0 {
			key = fmt.Sprintf("customer:%d", uid)
		}
		if !l.Allow(key) {
			response.Error(c, apperrors.ErrTooManyRequest)
			c.Abort()
			return
		}
		c.Next()
	}
}
