package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appuser "github.com/xiebiao/bookcart/internal/application/user"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/domain/user"
	"github.com/xiebiao/bookcart/internal/infrastructure/config"
	"github.com/xiebiao/bookcart/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcart/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/pkg/circuitbreaker"
	"github.com/xiebiao/bookcart/pkg/jwt"
	"github.com/xiebiao/bookcart/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Server *http.Server
	DB     *gorm.DB
}

// ========================================
// Custom Providers
// ========================================
// 构造函数的参数需要从Config中提取时,在这里写Provider

// provideDB 数据库连接,cleanup时关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接
func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	return redis.NewClient(context.Background(), cfg.Redis, log)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)
}

// provideUserService bcrypt cost来自配置
func provideUserService(repo user.Repository, cfg *config.Config) user.Service {
	return user.NewService(repo, cfg.Auth.BcryptCost)
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions *redis.SessionStore,
	cfg *config.Config,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

func breakerConfig(cfg *config.Config) circuitbreaker.Config {
	return circuitbreaker.Config{
		MaxRequests:         cfg.Breaker.MaxRequests,
		Timeout:             cfg.Breaker.Timeout,
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
	}
}

// provideOrderCache 订单缓存,Redis故障时熔断并回源数据库
func provideOrderCache(client *goredis.Client, cfg *config.Config) *redis.OrderCache {
	return redis.NewOrderCache(client, circuitbreaker.New("redis", breakerConfig(cfg)), cfg.Cache.OrderTTL)
}

// provideEventPublisher mq.enabled=false时不连接RabbitMQ
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (order.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NewNoopPublisher(log), func() {}, nil
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	breaker := circuitbreaker.New("rabbitmq", breakerConfig(cfg))
	return messaging.NewOrderEventPublisher(pub, breaker, log), cleanup, nil
}

func provideOrderLimiter(cfg *config.Config) *middleware.CustomerRateLimiter {
	return middleware.NewCustomerRateLimiter(cfg.RateLimit.OrdersPerSecond, cfg.RateLimit.Burst)
}

func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
