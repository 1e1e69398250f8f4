package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for application spans
const TracerName = "markethub-backend"

// Span attribute keys used across the settlement flow. Keeping them here
// means dashboards and alerts can rely on stable names.
const (
	AttrOrderID          = "order.id"
	AttrOrderNumber      = "order.number"
	AttrOrderStatus      = "order.status"
	AttrPaymentReference = "payment.reference"
	AttrPaymentAmount    = "payment.amount"
	AttrPaymentChannel   = "payment.channel"
	AttrCallbackEvent    = "callback.event"
	AttrSellerID         = "seller.id"
	AttrPartnerCode      = "partner.short_code"
	AttrEffectHandler    = "effect.handler"
)

// StartSpan starts a span in the application tracer scope
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span named after a service operation, e.g.
// StartServiceSpan(ctx, "SettlementService", "ProcessCallback").
func StartServiceSpan(ctx context.Context, service, operation string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation), opts...)
}

// SetAttributes adds attributes to the span in the given context
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// RecordError records an error on the span and marks it failed. Nil errors
// are ignored so call sites do not need to branch.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddEvent adds a timestamped event to the current span
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// String builds a string attribute
func String(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// Int64 builds an int64 attribute
func Int64(key string, value int64) attribute.KeyValue {
	return attribute.Int64(key, value)
}

// Bool builds a bool attribute
func Bool(key string, value bool) attribute.KeyValue {
	return attribute.Bool(key, value)
}
