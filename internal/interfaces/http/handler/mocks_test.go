package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	catalogapp "github.com/erp/grabfood/internal/application/catalog"
	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/infrastructure/auth"
	"github.com/erp/grabfood/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// serve mounts handler on route and runs one request through it
func serve(method, route, target string, body io.Reader, headers map[string]string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Handle(method, route, handler)

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

func errorCode(w *httptest.ResponseRecorder) string {
	body := decode(w)
	errInfo, _ := body["error"].(map[string]any)
	code, _ := errInfo["code"].(string)
	return code
}

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockTokenIssuer struct{ mock.Mock }

func (m *mockTokenIssuer) Authenticate(clientID, clientSecret string) error {
	return m.Called(clientID, clientSecret).Error(0)
}

func (m *mockTokenIssuer) CheckScope(scope string) error {
	return m.Called(scope).Error(0)
}

func (m *mockTokenIssuer) CheckGrantType(grantType string) error {
	return m.Called(grantType).Error(0)
}

func (m *mockTokenIssuer) Issue(clientID string) (*auth.AccessToken, error) {
	args := m.Called(clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.AccessToken), args.Error(1)
}

type mockMenuExporter struct{ mock.Mock }

func (m *mockMenuExporter) ExportForMerchant(ctx context.Context, q integrationapp.MerchantQuery) (*integrationapp.ExportResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ExportResult), args.Error(1)
}

func (m *mockMenuExporter) ExportByMerchantID(ctx context.Context, merchantID string) (*integrationapp.ExportResult, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ExportResult), args.Error(1)
}

type mockOrderIngester struct{ mock.Mock }

func (m *mockOrderIngester) Ingest(ctx context.Context, body []byte, source string) (*integrationapp.IngestResult, error) {
	args := m.Called(ctx, body, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.IngestResult), args.Error(1)
}

func (m *mockOrderIngester) UpdateState(ctx context.Context, body []byte) (*order.Order, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type mockWebhookRecorder struct{ mock.Mock }

func (m *mockWebhookRecorder) RecordMenuSyncState(ctx context.Context, in integrationapp.MenuSyncStateInput) (*integration.MenuSyncLog, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MenuSyncLog), args.Error(1)
}

func (m *mockWebhookRecorder) RecordIntegrationStatus(ctx context.Context, in integrationapp.IntegrationStatusInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *mockWebhookRecorder) RecordMenuPush(ctx context.Context, merchantID, partnerMerchantID string, payload json.RawMessage) error {
	return m.Called(ctx, merchantID, partnerMerchantID, payload).Error(0)
}

type mockMenuPlatform struct{ mock.Mock }

func (m *mockMenuPlatform) PushMenu(ctx context.Context, menuID int64) (*integrationapp.PushResult, error) {
	args := m.Called(ctx, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.PushResult), args.Error(1)
}

func (m *mockMenuPlatform) ActivationURL(ctx context.Context, menuID int64) (string, error) {
	args := m.Called(ctx, menuID)
	return args.String(0), args.Error(1)
}

func (m *mockMenuPlatform) MenuTrace(ctx context.Context, menuID int64) (*integration.MenuTrace, error) {
	args := m.Called(ctx, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.MenuTrace), args.Error(1)
}

func (m *mockMenuPlatform) PushCooldownRemaining(ctx context.Context, merchantID string) (time.Duration, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).(time.Duration), args.Error(1)
}

type mockMenuPreviewer struct{ mock.Mock }

func (m *mockMenuPreviewer) Preview(ctx context.Context, menuID int64) (*integrationapp.ExportResult, error) {
	args := m.Called(ctx, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ExportResult), args.Error(1)
}

type mockOrderManager struct{ mock.Mock }

func (m *mockOrderManager) GetOrder(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderManager) ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderManager) MarkOrder(ctx context.Context, externalOrderID string, mark integration.OrderMark) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID, mark)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderManager) UpdateReadyTime(ctx context.Context, externalOrderID string, readyAt time.Time) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID, readyAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *mockOrderManager) SyncOrders(ctx context.Context, merchantID string, date time.Time) (*integrationapp.SyncResult, error) {
	args := m.Called(ctx, merchantID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.SyncResult), args.Error(1)
}

type mockSyncLogReader struct{ mock.Mock }

func (m *mockSyncLogReader) ListSyncLogs(ctx context.Context, merchantID string, limit int) ([]integration.MenuSyncLog, error) {
	args := m.Called(ctx, merchantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.MenuSyncLog), args.Error(1)
}

type mockPriceWizard struct{ mock.Mock }

func (m *mockPriceWizard) Preview(ctx context.Context, req catalogapp.PricePlanRequest) (*catalogapp.PricePreviewResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PricePreviewResponse), args.Error(1)
}

func (m *mockPriceWizard) Apply(ctx context.Context, req catalogapp.PricePlanRequest) (*catalogapp.PriceApplyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PriceApplyResponse), args.Error(1)
}

type mockModifierSyncer struct{ mock.Mock }

func (m *mockModifierSyncer) Sync(ctx context.Context, itemIDs []int64) (*catalogapp.ModifierSyncResponse, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ModifierSyncResponse), args.Error(1)
}

type mockCategorySyncer struct{ mock.Mock }

func (m *mockCategorySyncer) Sync(ctx context.Context, categoryID int64) (*catalogapp.CategorySyncResponse, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.CategorySyncResponse), args.Error(1)
}

type mockPinger struct{ mock.Mock }

func (m *mockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
