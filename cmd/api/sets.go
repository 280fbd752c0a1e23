package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcart/internal/application/book"
	appcart "github.com/xiebiao/bookcart/internal/application/cart"
	appinventory "github.com/xiebiao/bookcart/internal/application/inventory"
	apporder "github.com/xiebiao/bookcart/internal/application/order"
	appuser "github.com/xiebiao/bookcart/internal/application/user"
	"github.com/xiebiao/bookcart/internal/domain/book"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	"github.com/xiebiao/bookcart/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookcart/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcart/internal/interface/http/handler"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/internal/interface/http/router"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================
// 放在普通文件里,wire_gen.go重新生成时不需要复制

// infrastructureSet 数据库、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideEventPublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewInventoryRepository,
	mysql.NewInventoryLogRepository,
	mysql.NewCartRepository,
	mysql.NewLineItemRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	wire.Bind(new(transaction.Manager), new(*mysql.TxManager)),
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	provideOrderCache,
	wire.Bind(new(order.Cache), new(*redis.OrderCache)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
	inventory.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdatePriceUseCase,
	appinventory.NewGetInventoryUseCase,
	appinventory.NewListLogsUseCase,
	appcart.NewCreateCartUseCase,
	appcart.NewGetCartUseCase,
	appcart.NewUpdateCartUseCase,
	appcart.NewDeleteCartUseCase,
	appcart.NewAddLineItemUseCase,
	appcart.NewRemoveLineItemUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
)

// interfaceSet 中间件、Handler、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	provideOrderLimiter,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewInventoryHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
	provideHTTPServer,
)
