package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 安装同步导出到内存的Provider
func setupRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := NewProvider(sdktrace.WithSyncer(exporter), sdktrace.WithSampler(sdktrace.AlwaysSample()))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

func TestStartSpan_ParentChild(t *testing.T) {
	exporter := setupRecorder(t)

	ctx, root := StartSpan(context.Background(), "order", "CreateOrder")
	_, child := StartSpan(ctx, "inventory", "Reserve")

	if child.SpanContext().TraceID() != root.SpanContext().TraceID() {
		t.Error("子Span应与根Span共享TraceID")
	}

	child.End()
	root.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("期望导出2个Span，实际%d个", len(spans))
	}
	if spans[0].Name != "Reserve" || spans[0].Parent.SpanID() != root.SpanContext().SpanID() {
		t.Errorf("子Span父子关系错误: %+v", spans[0])
	}
}

func TestEndSpan_RecordsError(t *testing.T) {
	exporter := setupRecorder(t)

	_, span := StartSpan(context.Background(), "order", "CreateOrder")
	EndSpan(span, errors.New("库存不足"))

	_, ok := StartSpan(context.Background(), "order", "GetOrder")
	EndSpan(ok, nil)

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("期望导出2个Span，实际%d个", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("失败Span状态应为Error，实际%v", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("失败Span应记录error事件")
	}
	if spans[1].Status.Code == codes.Error {
		t.Error("成功Span不应标记为Error")
	}
}

func TestExtractIDs(t *testing.T) {
	setupRecorder(t)

	if ExtractTraceID(context.Background()) != "" || ExtractSpanID(context.Background()) != "" {
		t.Error("无Span的Context应返回空字符串")
	}

	ctx, span := StartSpan(context.Background(), "test", "Extract")
	defer span.End()

	if len(ExtractTraceID(ctx)) != 32 {
		t.Errorf("TraceID长度错误: %q", ExtractTraceID(ctx))
	}
	if len(ExtractSpanID(ctx)) != 16 {
		t.Errorf("SpanID长度错误: %q", ExtractSpanID(ctx))
	}
}

func TestSampler(t *testing.T) {
	if sampler(0).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("采样率0应全采样")
	}
	if sampler(0.1).Description() == sdktrace.AlwaysSample().Description() {
		t.Error("采样率0.1不应全采样")
	}
}
