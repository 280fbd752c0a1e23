package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errUnavailable = errors.New("service unavailable")

// TestBreaker_ClosedState 正常请求保持CLOSED
func TestBreaker_ClosedState(t *testing.T) {
	b := New("test-closed", Config{ConsecutiveFailures: 5})

	for i := 0; i < 10; i++ {
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if b.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", b.State())
	}
	if b.Counts().TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", b.Counts().TotalSuccesses)
	}
}

// TestBreaker_OpenState 连续失败触发熔断
func TestBreaker_OpenState(t *testing.T) {
	b := New("test-open", Config{ConsecutiveFailures: 5, Timeout: 30 * time.Second})

	for i := 0; i < 5; i++ {
		_ = b.Execute(func() error { return errUnavailable })
	}

	if b.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", b.State())
	}

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrOpenState) {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if !IsRejected(err) {
		t.Error("IsRejected应识别熔断拒绝")
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestBreaker_HalfOpenRecovery 超时后探测成功恢复CLOSED
func TestBreaker_HalfOpenRecovery(t *testing.T) {
	b := New("test-half-open", Config{
		MaxRequests:         1,
		Timeout:             100 * time.Millisecond,
		ConsecutiveFailures: 3,
	})

	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return errUnavailable })
	}
	if b.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", b.State())
	}

	time.Sleep(150 * time.Millisecond)
	if b.State() != StateHalfOpen {
		t.Fatalf("期望状态为HALF_OPEN，实际%s", b.State())
	}

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("半开状态探测请求期望成功，实际%v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("探测成功后期望CLOSED，实际%s", b.State())
	}
}

// TestBreaker_IsSuccessful 业务上可接受的错误不计入失败
func TestBreaker_IsSuccessful(t *testing.T) {
	errMiss := errors.New("cache miss")
	b := New("test-successful", Config{
		ConsecutiveFailures: 2,
		IsSuccessful: func(err error) bool {
			return errors.Is(err, errMiss)
		},
	})

	for i := 0; i < 5; i++ {
		err := b.Execute(func() error { return errMiss })
		if !errors.Is(err, errMiss) {
			t.Fatalf("错误应原样返回，实际%v", err)
		}
	}

	if b.State() != StateClosed {
		t.Errorf("缓存未命中不应触发熔断，实际%s", b.State())
	}
}
