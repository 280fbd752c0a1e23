package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/infrastructure/config"
)

// defaultPingTimeout 未配置dial_timeout时的启动探活超时
const defaultPingTimeout = 3 * time.Second

// NewClient 创建Redis客户端并探活，返回的cleanup负责关闭连接池
// 会话、黑名单和订单缓存共用这一个客户端
func NewClient(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*redis.Client, func(), error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("连接Redis %s 失败: %w", cfg.Addr(), err)
	}

	log.Info("Redis已连接", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB), zap.Int("pool_size", cfg.PoolSize))
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("关闭Redis连接失败", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
