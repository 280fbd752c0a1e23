// Package logger 基于zap构建结构化日志
package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
// 与config.LogConfig字段一一对应，避免pkg依赖internal
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 根据配置创建zap.Logger
//
// 设计说明：
// 1. json格式用于生产环境（便于ELK采集），console格式用于本地开发
// 2. 时间统一使用ISO8601
// 3. Output支持stdout、stderr以及文件路径
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}

	encoding := defaultString(opts.Format, "json")
	if encoding != "json" && encoding != "console" {
		return nil, fmt.Errorf("无效的日志格式: %s", encoding)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	output := defaultString(opts.Output, "stdout")
	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !opts.EnableCaller,
		DisableStacktrace: level > zapcore.DebugLevel,
	}

	return cfg.Build()
}

// NewNop 测试用的空日志
func NewNop() *zap.Logger {
	return zap.NewNop()
}

type ctxKey struct{}

// WithContext 将logger放入context（中间件注入带request_id的logger）
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 取出请求级logger，没有则返回全局logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
