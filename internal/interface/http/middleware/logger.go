package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/pkg/logger"
	"github.com/xiebiao/bookcart/pkg/tracing"
)

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-ID"

// slowRequestThreshold 超过该耗时的请求记为Warn
const slowRequestThreshold = 3 * time.Second

// RequestLogger 请求日志中间件
// 1. 复用上游的X-Request-ID,没有则生成uuid
// 2. 把带request_id/trace_id的logger放进请求Context,下游用logger.FromContext取
// 3. 每个请求结束时输出一行结构化日志,不记录请求体和Token
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		reqLogger := base.With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		logFields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if uid := GetUserID(c); uid != 0 {
			logFields = append(logFields, zap.Uint("user_id", uid))
		}
		if len(c.Errors) > 0 {
			logFields = append(logFields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			reqLogger.Error("request", logFields...)
		case latency > slowRequestThreshold:
			reqLogger.Warn("slow request", logFields...)
		default:
			reqLogger.Info("request", logFields...)
		}
	}
}
