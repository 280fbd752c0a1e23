// Package circuitbreaker 熔断器
//
// 基于sony/gobreaker，补充了本项目需要的两件事：
// 1. 状态变化与请求结果上报Prometheus（circuit_breaker_state / circuit_breaker_requests_total）
// 2. 调用方可以声明哪些错误属于"业务正常"（例如缓存未命中），不计入失败
//
// 状态机：
//
//	CLOSED --连续失败达到阈值--> OPEN --Timeout到期--> HALF_OPEN
//	HALF_OPEN --连续成功MaxRequests次--> CLOSED
//	HALF_OPEN --任意失败--> OPEN
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/xiebiao/bookcart/pkg/metrics"
)

// State 熔断器状态
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

var (
	// ErrOpenState 熔断器打开，请求被直接拒绝
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests 半开状态下探测请求已满
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许通过的探测请求数
	MaxRequests uint32
	// Interval CLOSED状态下清零统计的周期，0表示不清零
	Interval time.Duration
	// Timeout OPEN状态持续时间，到期后进入HALF_OPEN
	Timeout time.Duration
	// ConsecutiveFailures 连续失败多少次后熔断
	ConsecutiveFailures uint32
	// IsSuccessful 返回true的错误不计为失败
	IsSuccessful func(err error) bool
}

func (c Config) withDefaults() Config {
	if c.MaxRequests == 0 {
		c.MaxRequests = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.ConsecutiveFailures == 0 {
		c.ConsecutiveFailures = 5
	}
	return c
}

// Breaker 熔断器
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New 创建熔断器
func New(name string, cfg Config) *Breaker {
	cfg = cfg.withDefaults()

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerState(name, stateValue(to))
		},
	}
	if cfg.IsSuccessful != nil {
		isSuccessful := cfg.IsSuccessful
		settings.IsSuccessful = func(err error) bool {
			return err == nil || isSuccessful(err)
		}
	}

	metrics.RecordBreakerState(name, stateValue(StateClosed))
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute 在熔断保护下执行fn
// 熔断打开时不调用fn，直接返回ErrOpenState
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case err == nil:
		metrics.RecordBreakerRequest(b.name, "success")
	case errors.Is(err, ErrOpenState), errors.Is(err, ErrTooManyRequests):
		metrics.RecordBreakerRequest(b.name, "rejected")
	default:
		metrics.RecordBreakerRequest(b.name, "failure")
	}
	return err
}

// Name 熔断器名称
func (b *Breaker) Name() string {
	return b.name
}

// State 当前状态
func (b *Breaker) State() State {
	return b.cb.State()
}

// Counts 当前统计
func (b *Breaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

// IsRejected 判断错误是否来自熔断器本身
func IsRejected(err error) bool {
	return errors.Is(err, ErrOpenState) || errors.Is(err, ErrTooManyRequests)
}

// stateValue 与circuit_breaker_state指标约定一致：0=CLOSED, 1=OPEN, 2=HALF_OPEN
func stateValue(s State) float64 {
	switch s {
	case StateOpen:
		return 1
	case StateHalfOpen:
		return 2
	default:
		return 0
	}
}
