package delivery

import (
	"context"
	"time"

	"github.com/erp/grabfood/internal/domain/integration"
)

// DisabledPlatform is used when no Grab credentials are configured.
// Every call fails with ErrPlatformNotConfigured.
type DisabledPlatform struct{}

var _ integration.DeliveryPlatform = DisabledPlatform{}

func (DisabledPlatform) NotifyMenuUpdate(context.Context, string) (*integration.MenuNotificationResult, error) {
	return nil, integration.ErrPlatformNotConfigured
}

func (DisabledPlatform) MarkOrder(context.Context, string, integration.OrderMark) error {
	return integration.ErrPlatformNotConfigured
}

func (DisabledPlatform) UpdateOrderReadyTime(context.Context, string, time.Time) error {
	return integration.ErrPlatformNotConfigured
}

func (DisabledPlatform) CreateSelfServeActivation(context.Context, string) (string, error) {
	return "", integration.ErrPlatformNotConfigured
}

func (DisabledPlatform) GetMenuTrace(context.Context, string, string) (*integration.MenuTrace, error) {
	return nil, integration.ErrPlatformNotConfigured
}

func (DisabledPlatform) ListOrders(context.Context, integration.OrderListRequest) (*integration.OrderListPage, error) {
	return nil, integration.ErrPlatformNotConfigured
}
