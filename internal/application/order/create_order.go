package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcart/internal/domain/cart"
	"github.com/xiebiao/bookcart/internal/domain/inventory"
	"github.com/xiebiao/bookcart/internal/domain/order"
	"github.com/xiebiao/bookcart/internal/domain/transaction"
	apperrors "github.com/xiebiao/bookcart/pkg/errors"
	"github.com/xiebiao/bookcart/pkg/logger"
	"github.com/xiebiao/bookcart/pkg/metrics"
	"github.com/xiebiao/bookcart/pkg/tracing"
)

const tracerName = "application/order"

// maxOrderNoAttempts 订单号撞上唯一索引时最多生成几次
const maxOrderNoAttempts = 3

// CreateOrderUseCase 下单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:单事务原子性、库存防超卖、购物车状态机
type CreateOrderUseCase struct {
	carts       cart.Repository
	orders      order.Repository
	inventories inventory.Service
	invLogs     inventory.LogRepository
	txManager   transaction.Manager
	publisher   order.EventPublisher
	cache       order.Cache
	newOrderNo  func() string
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	carts cart.Repository,
	orders order.Repository,
	inventories inventory.Service,
	invLogs inventory.LogRepository,
	txManager transaction.Manager,
	publisher order.EventPublisher,
	cache order.Cache,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		carts:       carts,
		orders:      orders,
		inventories: inventories,
		invLogs:     invLogs,
		txManager:   txManager,
		publisher:   publisher,
		cache:       cache,
		newOrderNo:  order.GenerateOrderNo,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CartID        uint
	CustomerID    uint // 下单人(从JWT中提取)
	PaymentMethod order.PaymentMethod
}

// Execute 执行下单
// 教学重点:所有步骤在同一个事务内
//
//  1. 锁定购物车(SELECT FOR UPDATE),检查归属和状态
//  2. 空购物车直接拒绝
//  3. 按图书ID升序逐个扣减库存,任何一个不足整个事务回滚
//  4. 生成订单号,保存订单快照
//  5. 写库存日志
//  6. 购物车置为inactive
//
// 失败时购物车保持active,所有库存保持原样,不存在"半个订单"
// 事务提交之后才发布事件、写缓存,这两步失败只记日志
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (result *order.Order, err error) {
	start := time.Now()
	done := metrics.TrackOrderInProgress()
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder", trace.WithAttributes(
		attribute.Int64("cart.id", int64(req.CartID)),
		attribute.Int64("customer.id", int64(req.CustomerID)),
		attribute.String("payment.method", string(req.PaymentMethod)),
	))
	defer func() {
		done()
		if err != nil {
			metrics.RecordOrderFailed(failureReason(err), time.Since(start))
		} else {
			metrics.RecordOrderCreated(time.Since(start))
		}
		tracing.EndSpan(span, err)
	}()

	// 参数校验在开启事务之前完成
	if !req.PaymentMethod.IsValid() {
		return nil, order.ErrInvalidPaymentMethod
	}
	if req.CartID == 0 {
		return nil, cart.ErrCartNotFound
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// ========================================
		// 步骤1:锁定购物车
		// ========================================
		c, err := uc.carts.LockByID(ctx, req.CartID)
		if err != nil {
			return err
		}
		if !c.IsOwnedBy(req.CustomerID) {
			return cart.ErrForbidden
		}
		if err := c.EnsureActive(); err != nil {
			return err
		}
		if c.IsEmpty() {
			return order.ErrEmptyCart
		}

		// ========================================
		// 步骤2:扣减库存
		// ========================================
		// 教学要点:按BookID排序后加锁,两个订单包含相同的几本书时
		// 加锁顺序一致,不会互相等待形成死锁
		reservations, err := uc.reserveAll(ctx, c.LineItems)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤3:创建订单快照
		// ========================================
		items := make([]order.OrderItem, 0, len(c.LineItems))
		for _, li := range c.LineItems {
			items = append(items, order.OrderItem{
				BookID:   li.BookID,
				Quantity: li.Quantity,
				Price:    li.Price, // 加入购物车时的单价
			})
		}
		o, err := uc.saveOrder(ctx, req, c.ID, items)
		if err != nil {
			return err
		}

		// ========================================
		// 步骤4:库存日志(与扣减同一事务)
		// ========================================
		logs := make([]*inventory.Log, 0, len(reservations))
		for _, r := range reservations {
			logs = append(logs, inventory.NewReserveLog(r, o.ID))
		}
		if err := uc.invLogs.BatchCreate(ctx, logs); err != nil {
			return err
		}

		// ========================================
		// 步骤5:购物车置为inactive
		// ========================================
		if err := c.Deactivate(); err != nil {
			return err
		}
		if err := uc.carts.Update(ctx, c); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			metrics.RecordReservation("insufficient")
		}
		return nil, err
	}

	for range result.Items {
		metrics.RecordReservation("success")
	}
	uc.afterCommit(ctx, result)
	return result, nil
}

// reserveAll 按图书ID升序逐个扣减
func (uc *CreateOrderUseCase) reserveAll(ctx context.Context, lineItems []*cart.LineItem) ([]inventory.Reservation, error) {
	sorted := make([]*cart.LineItem, len(lineItems))
	copy(sorted, lineItems)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BookID < sorted[j].BookID })

	reservations := make([]inventory.Reservation, 0, len(sorted))
	for _, li := range sorted {
		r, err := uc.inventories.Reserve(ctx, li.BookID, li.Quantity)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, nil
}

// afterCommit 事务提交后的旁路动作,失败不影响下单结果
func (uc *CreateOrderUseCase) afterCommit(ctx context.Context, o *order.Order) {
	log := logger.FromContext(ctx).With(
		zap.Uint("order_id", o.ID),
		zap.String("order_no", o.OrderNo),
	)

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCreated(ctx, o); err != nil {
			log.Warn("发布下单事件失败", zap.Error(err))
		}
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, o); err != nil {
			log.Warn("写入订单缓存失败", zap.Error(err))
		}
	}
	log.Info("下单成功",
		zap.Uint("customer_id", o.CustomerID),
		zap.Uint("cart_id", o.CartID),
		zap.Int64("total", o.Total),
	)
}

// failureReason 失败原因,用作指标标签
func failureReason(err error) string {
	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	case apperrors.ErrCodeEmptyCart:
		return "empty_cart"
	case apperrors.ErrCodeInvalidCartState:
		return "invalid_cart_state"
	case apperrors.ErrCodeForbidden:
		return "forbidden"
	case apperrors.ErrCodeCartNotFound, apperrors.ErrCodeInventoryNotFound:
		return "not_found"
	case apperrors.ErrCodeInvalidParams:
		return "invalid_params"
	default:
		return "internal"
	}
}

// saveOrder 生成订单号并保存,订单号冲突时换一个重试
// 仓储在冲突前设置了保存点,重试不影响同一事务里已扣减的库存
func (uc *CreateOrderUseCase) saveOrder(ctx context.Context, req CreateOrderRequest, cartID uint, items []order.OrderItem) (*order.Order, error) {
	for attempt := 1; ; attempt++ {
		o, err := order.NewOrder(uc.newOrderNo(), req.CustomerID, cartID, req.PaymentMethod, items)
		if err != nil {
			return nil, err
		}
		err = uc.orders.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, order.ErrOrderNoGenerate) || attempt == maxOrderNoAttempts {
			return nil, err
		}
		logger.FromContext(ctx).Warn("订单号冲突,重新生成",
			zap.String("order_no", o.OrderNo),
			zap.Int("attempt", attempt),
		)
	}
}
