package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/infrastructure/logger"
)

// MenuExporter renders menu documents for the platform
type MenuExporter interface {
	ExportForMerchant(ctx context.Context, q integrationapp.MerchantQuery) (*integrationapp.ExportResult, error)
	ExportByMerchantID(ctx context.Context, merchantID string) (*integrationapp.ExportResult, error)
}

var bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(\S.*)$`)

// Merchant parameter names, in lookup order
var (
	merchantIDParams        = []string{"merchantID", "merchantId", "mid"}
	partnerMerchantIDParams = []string{"partnerMerchantID", "partnerMerchantId", "pmid"}
	exportMerchantParams    = []string{"merchantId", "merchant_id"}
)

// MenuExportHandler serves the menu the platform pulls for a merchant
type MenuExportHandler struct {
	BaseHandler
	exporter MenuExporter
}

// NewMenuExportHandler creates a new MenuExportHandler
func NewMenuExportHandler(exporter MenuExporter) *MenuExportHandler {
	return &MenuExportHandler{exporter: exporter}
}

// GetMenu godoc
// @ID           getGrabMenu
// @Summary      Get the merchant menu
// @Description  Looks the menu up by partner merchant ID, then merchant ID, from the query string or JSON body. An unknown merchant gets a new empty menu.
// @Tags         partner
// @Produce      json
// @Param        merchantID query string false "Platform merchant ID"
// @Param        partnerMerchantID query string false "Partner merchant ID"
// @Success      200 {object} integration.MenuDocument
// @Failure      401 {object} PartnerErrorResponse
// @Failure      500 {object} PartnerErrorResponse
// @Security     BearerAuth
// @Router       /grab/get_menu [get]
func (h *MenuExportHandler) GetMenu(c *gin.Context) {
	body := readJSONObject(c)
	q := integrationapp.MerchantQuery{
		MerchantID:        lookupParam(c, body, merchantIDParams...),
		PartnerMerchantID: lookupParam(c, body, partnerMerchantIDParams...),
	}

	result, err := h.exporter.ExportForMerchant(c.Request.Context(), q)
	if err != nil {
		logger.GetGinLogger(c).Error("Menu export failed",
			zap.String("merchant_id", q.MerchantID),
			zap.String("partner_merchant_id", q.PartnerMerchantID),
			zap.Error(err))
		h.partnerError(c, http.StatusInternalServerError, "internal_error")
		return
	}
	h.writeDocument(c, result, q.MerchantID)
}

// ExportMenu godoc
// @ID           exportGrabMenu
// @Summary      Export a menu by merchant
// @Description  Requires a bearer header. Uses merchantId or merchant_id from the body or query, or the first menu when none is given.
// @Tags         partner
// @Accept       json
// @Produce      json
// @Success      200 {object} integration.MenuDocument
// @Failure      401 {object} PartnerErrorResponse
// @Failure      404 {object} PartnerErrorResponse
// @Failure      500 {object} PartnerErrorResponse
// @Security     BearerAuth
// @Router       /grab/menu/export [post]
func (h *MenuExportHandler) ExportMenu(c *gin.Context) {
	log := logger.GetGinLogger(c)

	m := bearerPattern.FindStringSubmatch(strings.TrimSpace(c.GetHeader("Authorization")))
	if m == nil || strings.TrimSpace(m[1]) == "" {
		log.Info("Menu export rejected without bearer token")
		h.partnerError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	body := readJSONObject(c)
	merchantID := lookupParam(c, body, exportMerchantParams...)

	result, err := h.exporter.ExportByMerchantID(c.Request.Context(), merchantID)
	if err != nil {
		if errors.Is(err, integration.ErrMenuNotFound) {
			h.partnerError(c, http.StatusNotFound, "menu_not_found")
			return
		}
		log.Error("Menu export failed", zap.String("merchant_id", merchantID), zap.Error(err))
		h.partnerError(c, http.StatusInternalServerError, "internal_error")
		return
	}
	h.writeDocument(c, result, merchantID)
}

func (h *MenuExportHandler) writeDocument(c *gin.Context, result *integrationapp.ExportResult, merchantID string) {
	payload, err := json.Marshal(result.Document)
	if err != nil {
		logger.GetGinLogger(c).Error("Failed to encode menu document", zap.Error(err))
		h.partnerError(c, http.StatusInternalServerError, "internal_error")
		return
	}
	logger.GetGinLogger(c).Info("Menu exported",
		zap.Int64("menu_id", result.MenuID),
		zap.String("merchant_id", merchantID),
		zap.Bool("created", result.Created),
		zap.Int("issues", len(result.Issues)),
		zap.Int("bytes", len(payload)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *MenuExportHandler) partnerError(c *gin.Context, status int, code string) {
	c.JSON(status, PartnerErrorResponse{Error: code, RequestID: getRequestID(c)})
}

// readJSONObject decodes the body as a JSON object. Empty or invalid bodies yield nil.
func readJSONObject(c *gin.Context) map[string]any {
	if c.Request.Body == nil || c.Request.Method == http.MethodGet {
		return nil
	}
	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// lookupParam returns the first non-empty value among names, query string before body
func lookupParam(c *gin.Context, body map[string]any, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.Query(n)); v != "" {
			return v
		}
	}
	for _, n := range names {
		if v := stringify(body[n]); v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
