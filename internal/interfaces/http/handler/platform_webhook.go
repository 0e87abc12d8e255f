package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/infrastructure/logger"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
)

// WebhookRecorder stores platform callbacks
type WebhookRecorder interface {
	RecordMenuSyncState(ctx context.Context, in integrationapp.MenuSyncStateInput) (*integration.MenuSyncLog, error)
	RecordIntegrationStatus(ctx context.Context, in integrationapp.IntegrationStatusInput) error
	RecordMenuPush(ctx context.Context, merchantID, partnerMerchantID string, payload json.RawMessage) error
}

// PlatformWebhookHandler receives menu and integration callbacks. Every accepted call answers 204.
type PlatformWebhookHandler struct {
	BaseHandler
	recorder WebhookRecorder
}

// NewPlatformWebhookHandler creates a new PlatformWebhookHandler
func NewPlatformWebhookHandler(recorder WebhookRecorder) *PlatformWebhookHandler {
	return &PlatformWebhookHandler{recorder: recorder}
}

// menuSyncStateBody is the sync-state callback. Go's decoder matches keys
// case-insensitively, so requestID/requestId and jobID/jobId both land here.
type menuSyncStateBody struct {
	RequestID         string          `json:"requestID"`
	MerchantID        string          `json:"merchantID"`
	PartnerMerchantID string          `json:"partnerMerchantID"`
	JobID             string          `json:"jobID"`
	UpdatedAt         string          `json:"updatedAt"`
	Status            string          `json:"status"`
	Errors            json.RawMessage `json:"errors"`
}

type integrationStatusBody struct {
	GrabMerchantID    string `json:"grabMerchantID"`
	MerchantID        string `json:"merchantID"`
	PartnerMerchantID string `json:"partnerMerchantID"`
	IntegrationStatus string `json:"integrationStatus"`
	Status            string `json:"status"`
}

type menuPushBody struct {
	MerchantID        string `json:"merchantID"`
	PartnerMerchantID string `json:"partnerMerchantID"`
}

// MenuSyncState godoc
// @ID           grabMenuSyncState
// @Summary      Receive a menu sync state
// @Description  Logs the outcome of a menu sync and remembers its request and job IDs on the menu. Invalid JSON is logged as an empty callback.
// @Tags         webhooks
// @Accept       json
// @Success      204
// @Failure      500 {object} ErrorResponse
// @Router       /grab/webhook/menu-sync-state [post]
func (h *PlatformWebhookHandler) MenuSyncState(c *gin.Context) {
	log := logger.GetGinLogger(c)

	var body menuSyncStateBody
	raw, err := c.GetRawData()
	if err == nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			log.Warn("Menu sync state callback is not valid JSON", zap.Error(err))
			body = menuSyncStateBody{}
		}
	}

	in := integrationapp.MenuSyncStateInput{
		RequestID:         strings.TrimSpace(body.RequestID),
		JobID:             strings.TrimSpace(body.JobID),
		MerchantID:        strings.TrimSpace(body.MerchantID),
		PartnerMerchantID: strings.TrimSpace(body.PartnerMerchantID),
		Status:            strings.TrimSpace(body.Status),
		UpdatedAt:         body.UpdatedAt,
		Errors:            decodeErrorList(body.Errors),
	}
	if _, err := h.recorder.RecordMenuSyncState(c.Request.Context(), in); err != nil {
		log.Error("Failed to record menu sync state", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	log.Info("Menu sync state recorded",
		zap.String("merchant_id", in.MerchantID),
		zap.String("job_id", in.JobID),
		zap.String("status", in.Status),
		zap.Int("errors", len(in.Errors)))
	h.NoContent(c)
}

// IntegrationStatus godoc
// @ID           grabIntegrationStatus
// @Summary      Receive an integration status change
// @Description  Logs the status and applies it to the merchant's menu
// @Tags         webhooks
// @Accept       json
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /grab/webhook/integration_status [post]
func (h *PlatformWebhookHandler) IntegrationStatus(c *gin.Context) {
	raw, ok := h.readObject(c)
	if !ok {
		return
	}
	var body integrationStatusBody
	_ = json.Unmarshal(raw, &body)

	err := h.recorder.RecordIntegrationStatus(c.Request.Context(), integrationapp.IntegrationStatusInput{
		MerchantID:        firstNonBlank(body.GrabMerchantID, body.MerchantID),
		PartnerMerchantID: strings.TrimSpace(body.PartnerMerchantID),
		Status:            firstNonBlank(body.IntegrationStatus, body.Status),
		Payload:           raw,
	})
	if err != nil {
		logger.GetGinLogger(c).Error("Failed to record integration status", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PushGrabMenu godoc
// @ID           grabPushMenu
// @Summary      Receive a pushed menu
// @Description  Logs the pushed menu payload
// @Tags         webhooks
// @Accept       json
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /grab/webhook/pushGrabMenu [post]
func (h *PlatformWebhookHandler) PushGrabMenu(c *gin.Context) {
	raw, ok := h.readObject(c)
	if !ok {
		return
	}
	var body menuPushBody
	_ = json.Unmarshal(raw, &body)

	err := h.recorder.RecordMenuPush(c.Request.Context(),
		strings.TrimSpace(body.MerchantID), strings.TrimSpace(body.PartnerMerchantID), raw)
	if err != nil {
		logger.GetGinLogger(c).Error("Failed to record pushed menu", zap.Error(err))
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// readObject reads a JSON object body. An empty body is treated as {}.
func (h *PlatformWebhookHandler) readObject(c *gin.Context) (json.RawMessage, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Request body could not be read")
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return json.RawMessage("{}"), true
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		logger.GetGinLogger(c).Warn("Webhook body is not a JSON object", zap.String("path", c.FullPath()), zap.Error(err))
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Body must be a JSON object")
		return nil, false
	}
	return json.RawMessage(raw), true
}

// decodeErrorList accepts a list of strings or of arbitrary JSON values
func decodeErrorList(raw json.RawMessage) []string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err == nil {
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, string(v))
		}
		return out
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{string(raw)}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
