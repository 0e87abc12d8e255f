package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
)

type orderFixture struct {
	orders   *MockOrderRepository
	platform *MockDeliveryPlatform
	archive  *MockArchive
	metrics  *MockMetrics
	service  *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   new(MockOrderRepository),
		platform: new(MockDeliveryPlatform),
		archive:  new(MockArchive),
		metrics:  new(MockMetrics),
	}
	reconciler := order.NewReconciler(order.NewItemResolver(emptyLookup{}))
	f.service = NewOrderService(f.orders, reconciler, f.platform, f.archive, f.metrics, zap.NewNop())
	f.metrics.On("RecordOrderIngested", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	f.metrics.On("RecordPlatformFailure", mock.Anything, mock.Anything, mock.Anything).Return()
	return f
}

func TestOrderService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid order", func(t *testing.T) {
		f := newOrderFixture()
		body := rawOrder("GF-1")
		f.orders.On("Upsert", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.ExternalOrderID == "GF-1" && len(o.Lines) == 1
		})).Return(&order.UpsertResult{Outcome: order.OutcomeCreated}, nil)
		f.archive.On("ArchiveOrder", ctx, "GF-1", mock.Anything, []byte(body)).Return("orders/2024-03-01/GF-1.json", nil)

		res, err := f.service.Ingest(ctx, body, SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, "GF-1", res.ExternalOrderID)
		assert.Equal(t, order.OutcomeCreated, res.Outcome)
		assert.Equal(t, 1, res.Lines)
		assert.Equal(t, 1, res.UnresolvedLines)
		assert.Equal(t, "orders/2024-03-01/GF-1.json", res.ArchiveKey)
		f.metrics.AssertCalled(t, "RecordOrderIngested", ctx, SourceWebhook, "CREATED", 1)
	})

	t.Run("missing fields are rejected before storage", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.Ingest(ctx, []byte(`{"orderID":"GF-1"}`), SourceWebhook)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.orders.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.Ingest(ctx, []byte(`{`), SourceWebhook)
		assert.ErrorIs(t, err, order.ErrMalformedPayload)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		f := newOrderFixture()
		boom := errors.New("deadlock")
		f.orders.On("Upsert", ctx, mock.Anything).Return(nil, boom)

		_, err := f.service.Ingest(ctx, rawOrder("GF-2"), SourceWebhook)
		assert.ErrorIs(t, err, boom)
		f.archive.AssertNotCalled(t, "ArchiveOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("archive failure keeps the order", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("Upsert", ctx, mock.Anything).Return(&order.UpsertResult{Outcome: order.OutcomeReplaced, FailedLines: []int{0}}, nil)
		f.archive.On("ArchiveOrder", ctx, "GF-3", mock.Anything, mock.Anything).Return("", errors.New("s3 down"))

		res, err := f.service.Ingest(ctx, rawOrder("GF-3"), SourceWebhook)
		require.NoError(t, err)
		assert.Equal(t, order.OutcomeReplaced, res.Outcome)
		assert.Equal(t, []int{0}, res.FailedLines)
		assert.Empty(t, res.ArchiveKey)
	})
}

func TestOrderService_UpdateState(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and stores the state", func(t *testing.T) {
		f := newOrderFixture()
		stored := &order.Order{ID: uuid.New(), ExternalOrderID: "GF-1", State: "ACCEPTED"}
		f.orders.On("FindByExternalID", ctx, "GF-1").Return(stored, nil)
		f.orders.On("UpdateState", ctx, stored).Return(nil)

		o, err := f.service.UpdateState(ctx, []byte(`{"orderID":"GF-1","state":"driver arrived","message":"at door","driverETA":30}`))
		require.NoError(t, err)
		assert.Equal(t, "DRIVER_ARRIVED", o.State)
		assert.Equal(t, "at door", o.StateMessage)
		require.NotNil(t, o.DriverETA)
		assert.Equal(t, 30, *o.DriverETA)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByExternalID", ctx, "GF-404").Return(nil, order.ErrOrderNotFound)

		_, err := f.service.UpdateState(ctx, []byte(`{"orderID":"GF-404","state":"CANCELLED"}`))
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("missing state", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.UpdateState(ctx, []byte(`{"orderID":"GF-1"}`))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestOrderService_MarkOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("completed mark sets the local state", func(t *testing.T) {
		f := newOrderFixture()
		stored := &order.Order{ExternalOrderID: "GF-1", State: "DELIVERED"}
		f.orders.On("FindByExternalID", ctx, "GF-1").Return(stored, nil)
		f.platform.On("MarkOrder", ctx, "GF-1", integration.OrderMarkCompleted).Return(nil)
		f.orders.On("UpdateState", ctx, stored).Return(nil)

		o, err := f.service.MarkOrder(ctx, "GF-1", integration.OrderMarkCompleted)
		require.NoError(t, err)
		assert.Equal(t, order.StateCompleted, o.State)
	})

	t.Run("ready mark leaves the state alone", func(t *testing.T) {
		f := newOrderFixture()
		stored := &order.Order{ExternalOrderID: "GF-1", State: "ACCEPTED"}
		f.orders.On("FindByExternalID", ctx, "GF-1").Return(stored, nil)
		f.platform.On("MarkOrder", ctx, "GF-1", integration.OrderMarkReady).Return(nil)

		o, err := f.service.MarkOrder(ctx, "GF-1", integration.OrderMarkReady)
		require.NoError(t, err)
		assert.Equal(t, "ACCEPTED", o.State)
		f.orders.AssertNotCalled(t, "UpdateState", mock.Anything, mock.Anything)
	})

	t.Run("platform failure is recorded", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByExternalID", ctx, "GF-1").Return(&order.Order{ExternalOrderID: "GF-1"}, nil)
		f.platform.On("MarkOrder", ctx, "GF-1", integration.OrderMarkReady).Return(integration.ErrPlatformUnavailable)

		_, err := f.service.MarkOrder(ctx, "GF-1", integration.OrderMarkReady)
		assert.ErrorIs(t, err, integration.ErrPlatformUnavailable)
		f.metrics.AssertCalled(t, "RecordPlatformFailure", ctx, "mark_order", integration.ErrPlatformUnavailable)
	})

	t.Run("invalid mark", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.MarkOrder(ctx, "GF-1", integration.OrderMark(7))
		require.Error(t, err)
		f.orders.AssertNotCalled(t, "FindByExternalID", mock.Anything, mock.Anything)
	})
}

func TestOrderService_UpdateReadyTime(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	readyAt := time.Date(2024, 3, 1, 18, 30, 0, 0, time.FixedZone("SGT", 8*3600))
	stored := &order.Order{ExternalOrderID: "GF-1"}
	f.orders.On("FindByExternalID", ctx, "GF-1").Return(stored, nil)
	f.platform.On("UpdateOrderReadyTime", ctx, "GF-1", readyAt).Return(nil)
	f.orders.On("UpdateState", ctx, stored).Return(nil)

	o, err := f.service.UpdateReadyTime(ctx, "GF-1", readyAt)
	require.NoError(t, err)
	require.NotNil(t, o.ScheduledTime)
	assert.True(t, readyAt.Equal(*o.ScheduledTime))
	assert.Equal(t, time.UTC, o.ScheduledTime.Location())
}

func TestOrderService_SyncOrders(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pages while more and ingests each order", func(t *testing.T) {
		f := newOrderFixture()
		f.platform.On("ListOrders", ctx, integration.OrderListRequest{MerchantID: "M-1", Date: date, Page: 1}).
			Return(&integration.OrderListPage{Orders: []json.RawMessage{rawOrder("A"), []byte(`{"bad":1}`)}, More: true}, nil)
		f.platform.On("ListOrders", ctx, integration.OrderListRequest{MerchantID: "M-1", Date: date, Page: 2}).
			Return(&integration.OrderListPage{Orders: []json.RawMessage{rawOrder("B")}, More: false}, nil)
		f.orders.On("Upsert", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.ExternalOrderID == "A" })).
			Return(&order.UpsertResult{Outcome: order.OutcomeCreated}, nil)
		f.orders.On("Upsert", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.ExternalOrderID == "B" })).
			Return(&order.UpsertResult{Outcome: order.OutcomeReplaced}, nil)
		f.archive.On("ArchiveOrder", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", nil)

		res, err := f.service.SyncOrders(ctx, "M-1", date)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Pages)
		assert.Equal(t, 1, res.Created)
		assert.Equal(t, 1, res.Replaced)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, "2024-03-01", res.Date)
		f.metrics.AssertCalled(t, "RecordOrderIngested", ctx, SourceSync, "CREATED", 1)
	})

	t.Run("first page failure is returned", func(t *testing.T) {
		f := newOrderFixture()
		f.platform.On("ListOrders", ctx, mock.Anything).Return(nil, integration.ErrPlatformAuthFailed)

		_, err := f.service.SyncOrders(ctx, "M-1", date)
		assert.ErrorIs(t, err, integration.ErrPlatformAuthFailed)
	})

	t.Run("merchant is required", func(t *testing.T) {
		f := newOrderFixture()
		_, err := f.service.SyncOrders(ctx, "", date)
		assert.ErrorIs(t, err, integration.ErrMenuMissingMerchant)
	})
}
