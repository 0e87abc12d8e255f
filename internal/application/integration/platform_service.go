package integration

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
)

// DefaultPushCooldown is the minimum gap between two menu pushes of one merchant
const DefaultPushCooldown = 120 * time.Second

const pushCooldownKeyPrefix = "grab:menu_push:"

// PlatformService runs merchant-level platform actions for a menu
type PlatformService struct {
	menuRepo catalog.MenuRepository
	platform integration.DeliveryPlatform
	store    shared.KeyValueStore
	cooldown time.Duration
	metrics  Metrics
	logger   *zap.Logger
}

// NewPlatformService creates a new PlatformService
func NewPlatformService(
	menuRepo catalog.MenuRepository,
	platform integration.DeliveryPlatform,
	store shared.KeyValueStore,
	cooldown time.Duration,
	metrics Metrics,
	logger *zap.Logger,
) *PlatformService {
	if cooldown <= 0 {
		cooldown = DefaultPushCooldown
	}
	return &PlatformService{
		menuRepo: menuRepo,
		platform: platform,
		store:    store,
		cooldown: cooldown,
		metrics:  metricsOrNoop(metrics),
		logger:   logger,
	}
}

// PushMenu asks the platform to fetch a menu again.
// A merchant can be pushed once per cooldown; earlier calls fail with ErrMenuPushTooFrequent.
func (s *PlatformService) PushMenu(ctx context.Context, menuID int64) (*PushResult, error) {
	menu, err := loadMenu(ctx, s.menuRepo, menuID)
	if err != nil {
		return nil, err
	}
	if menu.MerchantID == "" {
		return nil, integration.ErrMenuMissingMerchant
	}

	key := pushCooldownKeyPrefix + menu.MerchantID
	acquired, err := s.store.SetIfAbsent(ctx, key, time.Now().UTC().Format(time.RFC3339), s.cooldown)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, integration.ErrMenuPushTooFrequent
	}

	res, err := s.platform.NotifyMenuUpdate(ctx, menu.MerchantID)
	if err != nil {
		s.metrics.RecordPlatformFailure(ctx, "menu_notification", err)
		// a rejected push must not hold the cooldown, a throttled one must
		if !errors.Is(err, integration.ErrMenuPushTooFrequent) {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.logger.Warn("Failed to release menu push cooldown", zap.Error(delErr))
			}
		}
		return nil, err
	}

	s.logger.Info("Menu update notified",
		zap.Int64("menu_id", menu.ID),
		zap.String("merchant_id", menu.MerchantID),
		zap.Int("status", res.StatusCode))
	return &PushResult{
		MenuID:     menu.ID,
		MerchantID: menu.MerchantID,
		StatusCode: res.StatusCode,
		Accepted:   res.Accepted,
	}, nil
}

// ActivationURL returns the self-serve onboarding URL of a menu's partner merchant
func (s *PlatformService) ActivationURL(ctx context.Context, menuID int64) (string, error) {
	menu, err := loadMenu(ctx, s.menuRepo, menuID)
	if err != nil {
		return "", err
	}
	if menu.PartnerMerchantID == "" {
		return "", integration.ErrMenuMissingPartner
	}
	url, err := s.platform.CreateSelfServeActivation(ctx, menu.PartnerMerchantID)
	if err != nil {
		s.metrics.RecordPlatformFailure(ctx, "self_serve_activation", err)
		return "", err
	}
	return url, nil
}

// MenuTrace fetches the platform's sync trace for the last recorded request or job of a menu
func (s *PlatformService) MenuTrace(ctx context.Context, menuID int64) (*integration.MenuTrace, error) {
	menu, err := loadMenu(ctx, s.menuRepo, menuID)
	if err != nil {
		return nil, err
	}
	if !menu.HasSyncTrace() {
		return nil, integration.ErrMenuNoSyncTrace
	}
	trace, err := s.platform.GetMenuTrace(ctx, menu.LastMenuRequestID, menu.LastMenuJobID)
	if err != nil {
		s.metrics.RecordPlatformFailure(ctx, "menu_trace", err)
		return nil, err
	}
	return trace, nil
}

// PushCooldownRemaining returns how long a merchant must wait before the next push
func (s *PlatformService) PushCooldownRemaining(ctx context.Context, merchantID string) (time.Duration, error) {
	return s.store.TTL(ctx, pushCooldownKeyPrefix+merchantID)
}
