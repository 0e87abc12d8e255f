package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
)

func exportResult(merchantID string) *integrationapp.ExportResult {
	return &integrationapp.ExportResult{
		MenuID: 4,
		Document: &integration.MenuDocument{
			MerchantID:        merchantID,
			PartnerMerchantID: "P-1",
			Currency:          integration.CurrencyDocument{Code: "SGD", Symbol: "S$", Exponent: 2},
		},
	}
}

func TestGetMenu(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportForMerchant", mock.Anything, integrationapp.MerchantQuery{MerchantID: "M-1", PartnerMerchantID: "P-1"}).
			Return(exportResult("M-1"), nil)

		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodGet, "/menu", "/menu?merchantID=M-1&partnerMerchantID=P-1", nil, nil, h.GetMenu)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		body := decode(w)
		assert.Equal(t, "M-1", body["merchantID"])
		assert.Equal(t, "SGD", body["currency"].(map[string]any)["code"])
		exporter.AssertExpectations(t)
	})

	t.Run("short aliases", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportForMerchant", mock.Anything, integrationapp.MerchantQuery{MerchantID: "M-2", PartnerMerchantID: "P-2"}).
			Return(exportResult("M-2"), nil)

		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodGet, "/menu", "/menu?mid=M-2&pmid=P-2", nil, nil, h.GetMenu)

		assert.Equal(t, http.StatusOK, w.Code)
		exporter.AssertExpectations(t)
	})

	t.Run("json body", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportForMerchant", mock.Anything, integrationapp.MerchantQuery{MerchantID: "M-3", PartnerMerchantID: "12"}).
			Return(exportResult("M-3"), nil)

		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodPost, "/menu", "/menu", jsonBody(`{"merchantId":"M-3","partnerMerchantId":12}`), nil, h.GetMenu)

		assert.Equal(t, http.StatusOK, w.Code)
		exporter.AssertExpectations(t)
	})

	t.Run("export failure", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportForMerchant", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodGet, "/menu", "/menu?merchantID=M-1", nil, nil, h.GetMenu)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", decode(w)["error"])
	})
}

func TestExportMenu(t *testing.T) {
	bearer := map[string]string{"Authorization": "Bearer abc"}

	t.Run("requires a bearer header", func(t *testing.T) {
		for _, header := range []string{"", "Bearer ", "Basic abc", "Token abc"} {
			exporter := new(mockMenuExporter)
			h := NewMenuExportHandler(exporter)
			w := serve(http.MethodPost, "/export", "/export", nil, map[string]string{"Authorization": header}, h.ExportMenu)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
			assert.Equal(t, "unauthorized", decode(w)["error"])
			exporter.AssertNotCalled(t, "ExportByMerchantID", mock.Anything, mock.Anything)
		}
	})

	t.Run("lowercase scheme is accepted", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportByMerchantID", mock.Anything, "").Return(exportResult("M-1"), nil)
		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodPost, "/export", "/export", nil, map[string]string{"Authorization": "bearer xyz"}, h.ExportMenu)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("merchant from body", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportByMerchantID", mock.Anything, "M-9").Return(exportResult("M-9"), nil)
		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodPost, "/export", "/export", jsonBody(`{"merchant_id":"M-9"}`), bearer, h.ExportMenu)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "M-9", decode(w)["merchantID"])
		exporter.AssertExpectations(t)
	})

	t.Run("menu not found", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportByMerchantID", mock.Anything, "M-0").Return(nil, integration.ErrMenuNotFound)
		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodPost, "/export", "/export?merchantId=M-0", nil, bearer, h.ExportMenu)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "menu_not_found", decode(w)["error"])
	})

	t.Run("export failure", func(t *testing.T) {
		exporter := new(mockMenuExporter)
		exporter.On("ExportByMerchantID", mock.Anything, "M-1").Return(nil, errors.New("boom"))
		h := NewMenuExportHandler(exporter)
		w := serve(http.MethodPost, "/export", "/export?merchantId=M-1", nil, bearer, h.ExportMenu)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
