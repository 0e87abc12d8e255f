package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
)

// MockMenuRepository is a mock implementation of catalog.MenuRepository
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) menu(args mock.Arguments) (*catalog.Menu, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Menu), args.Error(1)
}

func (m *MockMenuRepository) FindByID(ctx context.Context, id int64) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, id))
}

func (m *MockMenuRepository) FindByPartnerMerchantID(ctx context.Context, partnerMerchantID string) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, partnerMerchantID))
}

func (m *MockMenuRepository) FindByMerchantID(ctx context.Context, merchantID string) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx, merchantID))
}

func (m *MockMenuRepository) FindFirst(ctx context.Context) (*catalog.Menu, error) {
	return m.menu(m.Called(ctx))
}

func (m *MockMenuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Menu, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Menu), args.Get(1).(int64), args.Error(2)
}

func (m *MockMenuRepository) FindCategory(ctx context.Context, categoryID int64) (*catalog.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockMenuRepository) Save(ctx context.Context, menu *catalog.Menu) error {
	args := m.Called(ctx, menu)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFirstPublished(ctx context.Context) (*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindVariantBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockProductRepository) FindVariantByBarcode(ctx context.Context, barcode string) (*catalog.Variant, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockProductRepository) FindSellableByCategory(ctx context.Context, productCategoryID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, productCategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Upsert(ctx context.Context, o *order.Order) (*order.UpsertResult, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.UpsertResult), args.Error(1)
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateState(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// MockDeliveryPlatform is a mock implementation of integration.DeliveryPlatform
type MockDeliveryPlatform struct {
	mock.Mock
}

func (m *MockDeliveryPlatform) NotifyMenuUpdate(ctx context.Context, merchantID string) (*integration.MenuNotificationResult, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MenuNotificationResult), args.Error(1)
}

func (m *MockDeliveryPlatform) MarkOrder(ctx context.Context, orderID string, mark integration.OrderMark) error {
	args := m.Called(ctx, orderID, mark)
	return args.Error(0)
}

func (m *MockDeliveryPlatform) UpdateOrderReadyTime(ctx context.Context, orderID string, readyAt time.Time) error {
	args := m.Called(ctx, orderID, readyAt)
	return args.Error(0)
}

func (m *MockDeliveryPlatform) CreateSelfServeActivation(ctx context.Context, partnerMerchantID string) (string, error) {
	args := m.Called(ctx, partnerMerchantID)
	return args.String(0), args.Error(1)
}

func (m *MockDeliveryPlatform) GetMenuTrace(ctx context.Context, requestID, jobID string) (*integration.MenuTrace, error) {
	args := m.Called(ctx, requestID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MenuTrace), args.Error(1)
}

func (m *MockDeliveryPlatform) ListOrders(ctx context.Context, req integration.OrderListRequest) (*integration.OrderListPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderListPage), args.Error(1)
}

// MockArchive is a mock implementation of integration.PayloadArchive
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) ArchiveOrder(ctx context.Context, externalOrderID string, receivedAt time.Time, body []byte) (string, error) {
	args := m.Called(ctx, externalOrderID, receivedAt, body)
	return args.String(0), args.Error(1)
}

func (m *MockArchive) ArchiveMenuExport(ctx context.Context, merchantID string, exportedAt time.Time, body []byte) (string, error) {
	args := m.Called(ctx, merchantID, exportedAt, body)
	return args.String(0), args.Error(1)
}

// MockKeyValueStore is a mock implementation of shared.KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKeyValueStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockKeyValueStore) Close() error {
	return m.Called().Error(0)
}

// MockWebhookLogRepository is a mock implementation of integration.WebhookLogRepository
type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) SaveMenuSyncLog(ctx context.Context, log *integration.MenuSyncLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockWebhookLogRepository) SaveIntegrationStatusLog(ctx context.Context, log *integration.IntegrationStatusLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockWebhookLogRepository) SaveMenuPushLog(ctx context.Context, log *integration.MenuPushLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockWebhookLogRepository) ListMenuSyncLogs(ctx context.Context, merchantID string, limit int) ([]integration.MenuSyncLog, error) {
	args := m.Called(ctx, merchantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.MenuSyncLog), args.Error(1)
}

// MockMetrics records metric calls
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordMenuExport(ctx context.Context, items int) {
	m.Called(ctx, items)
}

func (m *MockMetrics) RecordOrderIngested(ctx context.Context, source, outcome string, unresolved int) {
	m.Called(ctx, source, outcome, unresolved)
}

func (m *MockMetrics) RecordPlatformFailure(ctx context.Context, operation string, err error) {
	m.Called(ctx, operation, err)
}

// emptyLookup resolves no catalog item
type emptyLookup struct{}

func (emptyLookup) ItemByExternalCode(context.Context, string) (*order.ItemRef, error) {
	return nil, nil
}

func (emptyLookup) ItemByID(context.Context, int64) (*order.ItemRef, error) { return nil, nil }

func (emptyLookup) VariantBySKU(context.Context, string) (*order.VariantRef, error) {
	return nil, nil
}

func (emptyLookup) VariantByBarcode(context.Context, string) (*order.VariantRef, error) {
	return nil, nil
}

func (emptyLookup) ItemByVariant(context.Context, int64) (*order.ItemRef, error) { return nil, nil }

func (emptyLookup) ItemByProduct(context.Context, int64) (*order.ItemRef, error) { return nil, nil }

func rawOrder(id string) json.RawMessage {
	return json.RawMessage(`{"orderID":"` + id + `","shortOrderNumber":"12","merchantID":"M-1",
		"paymentType":"CASHLESS","cutlery":false,"orderTime":"2024-03-01T10:00:00Z",
		"currency":{"code":"SGD","symbol":"S$","exponent":2},"featureFlags":{},
		"items":[{"id":"LATTE","quantity":1,"price":450,"tax":0}],
		"price":{"subtotal":450,"tax":0,"eaterPayment":450}}`)
}
