package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/infrastructure/config"
	"github.com/xiebiao/bookcart/internal/interface/http/handler"
	"github.com/xiebiao/bookcart/internal/interface/http/middleware"
	"github.com/xiebiao/bookcart/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	User      *handler.UserHandler
	Book      *handler.BookHandler
	Inventory *handler.InventoryHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
}

// New 创建Gin引擎并注册路由
// 中间件顺序：Recovery → Tracing → RequestLogger → Metrics → CORS
// Tracing必须在RequestLogger之前,日志才能带上trace_id
func New(
	cfg *config.Config,
	log *zap.Logger,
	h *Handlers,
	auth *middleware.AuthMiddleware,
	orderLimiter *middleware.CustomerRateLimiter,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Tracing(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// 生产环境建议禁用Swagger或添加访问控制
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", requireAuth, h.User.Logout)
		}

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)
			books.POST("", requireAuth, h.Book.PublishBook)
			books.PATCH("/:id/price", requireAuth, h.Book.UpdatePrice)
		}

		inventories := v1.Group("/inventories")
		{
			inventories.GET("/:book_id", h.Inventory.GetInventory)
			inventories.GET("/:book_id/logs", requireAuth, h.Inventory.ListLogs)
		}

		carts := v1.Group("/carts", requireAuth)
		{
			carts.POST("", h.Cart.CreateCart)
			carts.GET("/:id", h.Cart.GetCart)
			carts.PATCH("/:id", h.Cart.UpdateCart)
			carts.DELETE("/:id", h.Cart.DeleteCart)
			carts.POST("/:id/add-line-item", h.Cart.AddLineItem)
			carts.POST("/:id/remove-line-item", h.Cart.RemoveLineItem)
		}

		orders := v1.Group("/orders", requireAuth)
		{
			// 只对下单限流,按顾客计数
			orders.POST("", orderLimiter.Middleware(), h.Order.CreateOrder)
			orders.GET("", h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
		}
	}

	return r
}
