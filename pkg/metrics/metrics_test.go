package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 重复初始化不应panic（promauto重复注册会panic）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil || OrdersFailedTotal == nil || CartOperationsTotal == nil {
		t.Fatal("指标未初始化")
	}
}

// TestRecordOrder 下单成功/失败计数与耗时
func TestRecordOrder(t *testing.T) {
	InitMetrics()

	createdBefore := getCounterValue(t, OrdersCreatedTotal)
	failedBefore := getCounterValue(t, OrdersFailedTotal.WithLabelValues("insufficient_stock"))
	observedBefore := getHistogramCount(t, OrderCreationDuration)

	RecordOrderCreated(120 * time.Millisecond)
	RecordOrderCreated(80 * time.Millisecond)
	RecordOrderFailed("insufficient_stock", 10*time.Millisecond)

	if got := getCounterValue(t, OrdersCreatedTotal) - createdBefore; got != 2 {
		t.Errorf("成功订单数错误: expected=2, got=%f", got)
	}
	if got := getCounterValue(t, OrdersFailedTotal.WithLabelValues("insufficient_stock")) - failedBefore; got != 1 {
		t.Errorf("失败订单数错误: expected=1, got=%f", got)
	}
	if got := getHistogramCount(t, OrderCreationDuration) - observedBefore; got != 3 {
		t.Errorf("耗时观测次数错误: expected=3, got=%d", got)
	}
}

// TestTrackOrderInProgress 处理中订单数随done回落
func TestTrackOrderInProgress(t *testing.T) {
	InitMetrics()
	before := getGaugeValue(t, OrdersInProgress)

	done1 := TrackOrderInProgress()
	done2 := TrackOrderInProgress()
	if got := getGaugeValue(t, OrdersInProgress) - before; got != 2 {
		t.Errorf("处理中订单数错误: expected=2, got=%f", got)
	}

	done1()
	done2()
	if got := getGaugeValue(t, OrdersInProgress); got != before {
		t.Errorf("处理结束后应回到%f, got=%f", before, got)
	}
}

// TestRecordCartOperation 按结果区分标签
func TestRecordCartOperation(t *testing.T) {
	InitMetrics()
	ok := CartOperationsTotal.WithLabelValues("add_line_item", "success")
	fail := CartOperationsTotal.WithLabelValues("add_line_item", "failure")
	okBefore, failBefore := getCounterValue(t, ok), getCounterValue(t, fail)

	RecordCartOperation("add_line_item", nil)
	RecordCartOperation("add_line_item", errors.New("boom"))
	RecordCartOperation("add_line_item", nil)

	if got := getCounterValue(t, ok) - okBefore; got != 2 {
		t.Errorf("成功次数错误: expected=2, got=%f", got)
	}
	if got := getCounterValue(t, fail) - failBefore; got != 1 {
		t.Errorf("失败次数错误: expected=1, got=%f", got)
	}
}

// TestRecordBreakerState 熔断器状态Gauge
func TestRecordBreakerState(t *testing.T) {
	RecordBreakerState("order-cache", 1)
	RecordBreakerState("order-events", 0)

	if got := getGaugeValue(t, CircuitBreakerState.WithLabelValues("order-cache")); got != 1 {
		t.Errorf("order-cache状态错误: expected=1, got=%f", got)
	}
	if got := getGaugeValue(t, CircuitBreakerState.WithLabelValues("order-events")); got != 0 {
		t.Errorf("order-events状态错误: expected=0, got=%f", got)
	}
}

// TestRecordHTTPRequest HTTP请求计数
func TestRecordHTTPRequest(t *testing.T) {
	c := func() prometheus.Counter { return HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/orders", "201") }
	RecordHTTPRequest("GET", "/ping", "200", time.Millisecond) // 确保已初始化
	before := getCounterValue(t, c())

	for i := 0; i < 3; i++ {
		RecordHTTPRequest("POST", "/api/v1/orders", "201", 5*time.Millisecond)
	}

	if got := getCounterValue(t, c()) - before; got != 3 {
		t.Errorf("HTTP请求数错误: expected=3, got=%f", got)
	}
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	t.Helper()
	var metric dto.Metric
	if err := histogram.Write(&metric); err != nil {
		t.Fatalf("读取Histogram值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
