package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
)

type platformFixture struct {
	menus    *MockMenuRepository
	platform *MockDeliveryPlatform
	store    *MockKeyValueStore
	service  *PlatformService
}

func newPlatformFixture() *platformFixture {
	f := &platformFixture{
		menus:    new(MockMenuRepository),
		platform: new(MockDeliveryPlatform),
		store:    new(MockKeyValueStore),
	}
	f.service = NewPlatformService(f.menus, f.platform, f.store, 0, nil, zap.NewNop())
	return f
}

func TestPlatformService_PushMenu(t *testing.T) {
	ctx := context.Background()
	menu := &catalog.Menu{ID: 1, MerchantID: "M-1"}

	t.Run("notifies and holds the cooldown", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(menu, nil)
		f.store.On("SetIfAbsent", ctx, "grab:menu_push:M-1", mock.Anything, DefaultPushCooldown).Return(true, nil)
		f.platform.On("NotifyMenuUpdate", ctx, "M-1").Return(&integration.MenuNotificationResult{StatusCode: 204, Accepted: true}, nil)

		res, err := f.service.PushMenu(ctx, 1)
		require.NoError(t, err)
		assert.True(t, res.Accepted)
		assert.Equal(t, 204, res.StatusCode)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("second push inside the cooldown is refused", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(menu, nil)
		f.store.On("SetIfAbsent", ctx, "grab:menu_push:M-1", mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.service.PushMenu(ctx, 1)
		assert.ErrorIs(t, err, integration.ErrMenuPushTooFrequent)
		f.platform.AssertNotCalled(t, "NotifyMenuUpdate", mock.Anything, mock.Anything)
	})

	t.Run("failed push releases the cooldown", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(menu, nil)
		f.store.On("SetIfAbsent", ctx, "grab:menu_push:M-1", mock.Anything, mock.Anything).Return(true, nil)
		f.platform.On("NotifyMenuUpdate", ctx, "M-1").Return(nil, integration.ErrPlatformUnavailable)
		f.store.On("Delete", ctx, "grab:menu_push:M-1").Return(nil)

		_, err := f.service.PushMenu(ctx, 1)
		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
		f.store.AssertExpectations(t)
	})

	t.Run("throttled push keeps the cooldown", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(menu, nil)
		f.store.On("SetIfAbsent", ctx, "grab:menu_push:M-1", mock.Anything, mock.Anything).Return(true, nil)
		f.platform.On("NotifyMenuUpdate", ctx, "M-1").
			Return(&integration.MenuNotificationResult{StatusCode: 409}, integration.ErrMenuPushTooFrequent)

		_, err := f.service.PushMenu(ctx, 1)
		assert.ErrorIs(t, err, integration.ErrMenuPushTooFrequent)
		f.store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("menu without merchant", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(2)).Return(&catalog.Menu{ID: 2}, nil)

		_, err := f.service.PushMenu(ctx, 2)
		assert.ErrorIs(t, err, integration.ErrMenuMissingMerchant)
	})

	t.Run("unknown menu", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(3)).Return(nil, shared.ErrNotFound)

		_, err := f.service.PushMenu(ctx, 3)
		assert.ErrorIs(t, err, integration.ErrMenuNotFound)
	})

	t.Run("cache failure", func(t *testing.T) {
		f := newPlatformFixture()
		boom := errors.New("redis down")
		f.menus.On("FindByID", ctx, int64(1)).Return(menu, nil)
		f.store.On("SetIfAbsent", ctx, mock.Anything, mock.Anything, mock.Anything).Return(false, boom)

		_, err := f.service.PushMenu(ctx, 1)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPlatformService_ActivationURL(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the platform URL", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(&catalog.Menu{ID: 1, PartnerMerchantID: "P-1"}, nil)
		f.platform.On("CreateSelfServeActivation", ctx, "P-1").Return("https://merchant.grab.com/onboard?x=1", nil)

		url, err := f.service.ActivationURL(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "https://merchant.grab.com/onboard?x=1", url)
	})

	t.Run("partner merchant ID is required", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(&catalog.Menu{ID: 1, MerchantID: "M-1"}, nil)

		_, err := f.service.ActivationURL(ctx, 1)
		assert.ErrorIs(t, err, integration.ErrMenuMissingPartner)
	})
}

func TestPlatformService_MenuTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the recorded identifiers", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(&catalog.Menu{ID: 1, LastMenuRequestID: "req", LastMenuJobID: "job"}, nil)
		f.platform.On("GetMenuTrace", ctx, "req", "job").Return(&integration.MenuTrace{Key: "requestId", Value: "req"}, nil)

		trace, err := f.service.MenuTrace(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "requestId", trace.Key)
	})

	t.Run("no trace recorded", func(t *testing.T) {
		f := newPlatformFixture()
		f.menus.On("FindByID", ctx, int64(1)).Return(&catalog.Menu{ID: 1}, nil)

		_, err := f.service.MenuTrace(ctx, 1)
		assert.ErrorIs(t, err, integration.ErrMenuNoSyncTrace)
	})
}

func TestPlatformService_PushCooldownRemaining(t *testing.T) {
	ctx := context.Background()
	f := newPlatformFixture()
	f.store.On("TTL", ctx, "grab:menu_push:M-1").Return(90*time.Second, nil)

	left, err := f.service.PushCooldownRemaining(ctx, "M-1")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, left)
}
