package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/erp/grabfood/internal/domain/integration"
)

// IntegrationMetrics counts menu exports, ingested orders and platform failures.
// A nil *IntegrationMetrics is valid and records nothing.
type IntegrationMetrics struct {
	menusExported   metric.Int64Counter
	menuItems       metric.Int64Histogram
	ordersIngested  metric.Int64Counter
	unresolvedLines metric.Int64Counter
	platformErrors  metric.Int64Counter
}

// NewIntegrationMetrics registers instruments on the meter
func NewIntegrationMetrics(meter metric.Meter) (*IntegrationMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewIntegrationMetrics: meter cannot be nil")
	}
	m := &IntegrationMetrics{}
	var err error

	if m.menusExported, err = meter.Int64Counter("grab.menu.exports",
		metric.WithDescription("Menu documents rendered for the platform"),
		metric.WithUnit("{export}")); err != nil {
		return nil, fmt.Errorf("grab.menu.exports: %w", err)
	}
	if m.menuItems, err = meter.Int64Histogram("grab.menu.items",
		metric.WithDescription("Items per exported menu"),
		metric.WithUnit("{item}")); err != nil {
		return nil, fmt.Errorf("grab.menu.items: %w", err)
	}
	if m.ordersIngested, err = meter.Int64Counter("grab.orders.ingested",
		metric.WithDescription("Orders stored from platform payloads"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("grab.orders.ingested: %w", err)
	}
	if m.unresolvedLines, err = meter.Int64Counter("grab.order_lines.unresolved",
		metric.WithDescription("Order lines not linked to a catalog item"),
		metric.WithUnit("{line}")); err != nil {
		return nil, fmt.Errorf("grab.order_lines.unresolved: %w", err)
	}
	if m.platformErrors, err = meter.Int64Counter("grab.platform.failures",
		metric.WithDescription("Failed outbound platform calls"),
		metric.WithUnit("{call}")); err != nil {
		return nil, fmt.Errorf("grab.platform.failures: %w", err)
	}
	return m, nil
}

// RecordMenuExport counts one rendered menu
func (m *IntegrationMetrics) RecordMenuExport(ctx context.Context, items int) {
	if m == nil {
		return
	}
	m.menusExported.Add(ctx, 1)
	m.menuItems.Record(ctx, int64(items))
}

// RecordOrderIngested counts one stored order and its unresolved lines
func (m *IntegrationMetrics) RecordOrderIngested(ctx context.Context, source, outcome string, unresolved int) {
	if m == nil {
		return
	}
	m.ordersIngested.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
	if unresolved > 0 {
		m.unresolvedLines.Add(ctx, int64(unresolved))
	}
}

// RecordPlatformFailure counts a failed outbound call by operation and error class
func (m *IntegrationMetrics) RecordPlatformFailure(ctx context.Context, operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.platformErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", failureReason(err)),
	))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, integration.ErrPlatformRateLimited):
		return "rate_limited"
	case errors.Is(err, integration.ErrPlatformUnavailable):
		return "unavailable"
	case errors.Is(err, integration.ErrPlatformAuthFailed):
		return "auth"
	case errors.Is(err, integration.ErrPlatformInvalidResponse):
		return "invalid_response"
	case errors.Is(err, integration.ErrMenuPushTooFrequent):
		return "too_frequent"
	case errors.Is(err, integration.ErrPlatformNotConfigured):
		return "not_configured"
	default:
		return "request_failed"
	}
}
