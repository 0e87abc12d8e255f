package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
)

// merchantPageSize is the menu page size used when collecting merchants
const merchantPageSize = 100

// MerchantSource lists the merchants whose orders are pulled periodically
type MerchantSource interface {
	MerchantIDs(ctx context.Context) ([]string, error)
}

// StaticMerchants is a fixed merchant list, usually from configuration
type StaticMerchants []string

// MerchantIDs returns the non-empty, distinct IDs in order
func (m StaticMerchants) MerchantIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{}, len(m))
	ids := make([]string, 0, len(m))
	for _, id := range m {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// MenuMerchantSource collects merchants from the stored menus.
// Menus the platform reports as inactive, rejected or suspended are skipped.
type MenuMerchantSource struct {
	menus catalog.MenuRepository
}

// NewMenuMerchantSource creates a merchant source backed by the menu repository
func NewMenuMerchantSource(menus catalog.MenuRepository) *MenuMerchantSource {
	return &MenuMerchantSource{menus: menus}
}

// MerchantIDs pages through every menu
func (s *MenuMerchantSource) MerchantIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for page := 1; ; page++ {
		menus, total, err := s.menus.FindAll(ctx, shared.Filter{
			Page:     page,
			PageSize: merchantPageSize,
			OrderBy:  "id",
			OrderDir: "asc",
		})
		if err != nil {
			return nil, err
		}
		for _, m := range menus {
			if m.MerchantID == "" || !syncable(m.IntegrationStatus) {
				continue
			}
			if _, ok := seen[m.MerchantID]; ok {
				continue
			}
			seen[m.MerchantID] = struct{}{}
			ids = append(ids, m.MerchantID)
		}
		if len(menus) < merchantPageSize || int64(page*merchantPageSize) >= total {
			return ids, nil
		}
	}
}

func syncable(status catalog.IntegrationStatus) bool {
	switch status {
	case catalog.IntegrationStatusInactive, catalog.IntegrationStatusRejected, catalog.IntegrationStatusSuspended:
		return false
	}
	return true
}

// OrderSyncTrigger periodically queues a sync for today and the lookback days of every merchant
type OrderSyncTrigger struct {
	scheduler    *OrderSyncScheduler
	merchants    MerchantSource
	interval     time.Duration
	lookbackDays int
	logger       *zap.Logger
	now          func() time.Time

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewOrderSyncTrigger creates a trigger. lookbackDays adds that many previous days per run.
func NewOrderSyncTrigger(
	scheduler *OrderSyncScheduler,
	merchants MerchantSource,
	interval time.Duration,
	lookbackDays int,
	logger *zap.Logger,
) (*OrderSyncTrigger, error) {
	if scheduler == nil || merchants == nil || interval <= 0 || lookbackDays < 0 {
		return nil, ErrInvalidConfig
	}
	return &OrderSyncTrigger{
		scheduler:    scheduler,
		merchants:    merchants,
		interval:     interval,
		lookbackDays: lookbackDays,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Start runs one pass immediately and then one per interval
func (t *OrderSyncTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx)

	t.logger.Info("Order sync trigger started",
		zap.Duration("interval", t.interval),
		zap.Int("lookback_days", t.lookbackDays),
	)
	return nil
}

// Stop stops the ticker loop
func (t *OrderSyncTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	cancel()
	<-done
	t.logger.Info("Order sync trigger stopped")
}

func (t *OrderSyncTrigger) run(ctx context.Context) {
	defer close(t.done)

	t.Trigger(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Trigger(ctx)
		}
	}
}

// Trigger queues one pass and returns the number of jobs queued
func (t *OrderSyncTrigger) Trigger(ctx context.Context) int {
	ids, err := t.merchants.MerchantIDs(ctx)
	if err != nil {
		t.logger.Error("Failed to list merchants for order sync", zap.Error(err))
		return 0
	}

	today := t.now().UTC().Truncate(24 * time.Hour)
	queued := 0
	for _, merchantID := range ids {
		for d := 0; d <= t.lookbackDays; d++ {
			day := today.AddDate(0, 0, -d)
			_, err := t.scheduler.ScheduleSync(merchantID, day)
			switch {
			case err == nil:
				queued++
			case errors.Is(err, ErrOrderSyncAlreadyQueued):
				t.logger.Debug("Order sync already queued",
					zap.String("merchant_id", merchantID),
					zap.String("date", day.Format(time.DateOnly)),
				)
			default:
				t.logger.Warn("Failed to queue order sync",
					zap.String("merchant_id", merchantID),
					zap.String("date", day.Format(time.DateOnly)),
					zap.Error(err),
				)
				if errors.Is(err, ErrSchedulerNotRunning) {
					return queued
				}
			}
		}
	}
	if queued > 0 {
		t.logger.Info("Order sync jobs queued",
			zap.Int("merchants", len(ids)),
			zap.Int("jobs", queued),
		)
	}
	return queued
}
