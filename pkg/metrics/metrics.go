// Package metrics 基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP：请求数、耗时、处理中请求数（由中间件记录）
//   - 结账业务：订单创建成功/失败、创建耗时、购物车操作、库存预占
//   - 基础设施：熔断器状态、消息发布数
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds），标签只使用有限取值
// （method、status、reason），不要把user_id、cart_id这类高基数字段放进标签。
//
// 使用方式：
//
//	metrics.InitMetrics()                  // 启动时注册
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.RecordOrderCreated(time.Since(start))
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时，标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// OrdersCreatedTotal 订单创建成功总数
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal 订单创建失败总数，标签：reason（insufficient_stock/empty_cart/...）
	OrdersFailedTotal *prometheus.CounterVec

	// OrderCreationDuration 订单创建耗时（含事务）
	OrderCreationDuration prometheus.Histogram

	// OrdersInProgress 正在处理的下单请求数
	OrdersInProgress prometheus.Gauge

	// CartOperationsTotal 购物车操作总数，标签：operation、result
	CartOperationsTotal *prometheus.CounterVec

	// InventoryReservationsTotal 库存预占次数，标签：result（success/insufficient/not_found/error）
	InventoryReservationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态，0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求数，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数，标签：exchange、routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单创建失败总数",
		},
		[]string{"reason"},
	)

	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "order_creation_duration_seconds",
			Help: "订单创建耗时（秒）",
			// 下单涉及行锁等待，桶上限放宽到10秒
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	OrdersInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_in_progress",
			Help: "正在处理的下单请求数",
		},
	)

	CartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "购物车操作总数",
		},
		[]string{"operation", "result"},
	)

	InventoryReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_reservations_total",
			Help: "库存预占次数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// =========================================
// 业务记录函数（内部保证已初始化）
// =========================================

// RecordOrderCreated 记录一次成功下单
func RecordOrderCreated(d time.Duration) {
	InitMetrics()
	OrdersCreatedTotal.Inc()
	OrderCreationDuration.Observe(d.Seconds())
}

// RecordOrderFailed 记录一次失败下单
func RecordOrderFailed(reason string, d time.Duration) {
	InitMetrics()
	OrdersFailedTotal.WithLabelValues(reason).Inc()
	OrderCreationDuration.Observe(d.Seconds())
}

// TrackOrderInProgress 处理中订单数+1，返回的函数用于-1
func TrackOrderInProgress() func() {
	InitMetrics()
	OrdersInProgress.Inc()
	return OrdersInProgress.Dec
}

// RecordCartOperation 记录购物车操作结果
func RecordCartOperation(operation string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	CartOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordReservation 记录库存预占结果
func RecordReservation(result string) {
	InitMetrics()
	InventoryReservationsTotal.WithLabelValues(result).Inc()
}

// RecordBreakerState 记录熔断器状态
func RecordBreakerState(name string, value float64) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(value)
}

// RecordBreakerRequest 记录熔断器请求结果
func RecordBreakerRequest(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordMessagePublished 记录消息发布结果
func RecordMessagePublished(exchange, routingKey string, err error) {
	InitMetrics()
	result := "success"
	if err != nil {
		result = "failure"
	}
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result).Inc()
}

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, path, status string, d time.Duration) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}
