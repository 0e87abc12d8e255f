package integration

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
)

// MenuSyncStateInput is a menu-sync-state callback
type MenuSyncStateInput struct {
	RequestID         string
	JobID             string
	MerchantID        string
	PartnerMerchantID string
	Status            string
	UpdatedAt         string
	Errors            []string
}

// IntegrationStatusInput is an integration-status callback
type IntegrationStatusInput struct {
	MerchantID        string
	PartnerMerchantID string
	Status            string
	Payload           json.RawMessage
}

// WebhookLogService stores platform callbacks and applies them to the merchant's menu
type WebhookLogService struct {
	logRepo  integration.WebhookLogRepository
	menuRepo catalog.MenuRepository
	logger   *zap.Logger
}

// NewWebhookLogService creates a new WebhookLogService
func NewWebhookLogService(
	logRepo integration.WebhookLogRepository,
	menuRepo catalog.MenuRepository,
	logger *zap.Logger,
) *WebhookLogService {
	return &WebhookLogService{
		logRepo:  logRepo,
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// RecordMenuSyncState logs a sync-state callback and keeps its request and job IDs on the menu
func (s *WebhookLogService) RecordMenuSyncState(ctx context.Context, in MenuSyncStateInput) (*integration.MenuSyncLog, error) {
	entry := integration.NewMenuSyncLog(in.RequestID, in.JobID, in.MerchantID, in.PartnerMerchantID, in.Status, in.Errors)
	if raw := strings.TrimSpace(in.UpdatedAt); raw != "" {
		if ts := order.ParseTimestamp(raw); ts != nil {
			entry.UpdatedAt = ts
		} else {
			entry.UpdatedAtRaw = raw
		}
	}
	if err := s.logRepo.SaveMenuSyncLog(ctx, entry); err != nil {
		return nil, err
	}

	if in.RequestID == "" && in.JobID == "" {
		return entry, nil
	}
	menu, err := findMerchantMenu(ctx, s.menuRepo, MerchantQuery{MerchantID: in.MerchantID, PartnerMerchantID: in.PartnerMerchantID})
	if err != nil {
		return nil, err
	}
	if menu == nil {
		s.logger.Debug("Sync state for unknown merchant",
			zap.String("merchant_id", in.MerchantID),
			zap.String("partner_merchant_id", in.PartnerMerchantID))
		return entry, nil
	}
	menu.RecordSyncTrace(in.RequestID, in.JobID)
	if err := s.menuRepo.Save(ctx, menu); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordIntegrationStatus logs an integration-status callback and applies a known status to the menu
func (s *WebhookLogService) RecordIntegrationStatus(ctx context.Context, in IntegrationStatusInput) error {
	entry := &integration.IntegrationStatusLog{
		ID:                uuid.New(),
		MerchantID:        in.MerchantID,
		PartnerMerchantID: in.PartnerMerchantID,
		Status:            in.Status,
		Payload:           in.Payload,
		CreatedAt:         time.Now(),
	}
	if err := s.logRepo.SaveIntegrationStatusLog(ctx, entry); err != nil {
		return err
	}

	menu, err := findMerchantMenu(ctx, s.menuRepo, MerchantQuery{MerchantID: in.MerchantID, PartnerMerchantID: in.PartnerMerchantID})
	if err != nil || menu == nil {
		return err
	}
	status := catalog.IntegrationStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if err := menu.SetIntegrationStatus(status); err != nil {
		s.logger.Warn("Ignoring integration status",
			zap.String("status", in.Status),
			zap.Int64("menu_id", menu.ID))
		return nil
	}
	return s.menuRepo.Save(ctx, menu)
}

// RecordMenuPush logs a pushGrabMenu callback
func (s *WebhookLogService) RecordMenuPush(ctx context.Context, merchantID, partnerMerchantID string, payload json.RawMessage) error {
	return s.logRepo.SaveMenuPushLog(ctx, &integration.MenuPushLog{
		ID:                uuid.New(),
		MerchantID:        merchantID,
		PartnerMerchantID: partnerMerchantID,
		Payload:           payload,
		CreatedAt:         time.Now(),
	})
}

// ListSyncLogs returns the latest sync-state callbacks of a merchant
func (s *WebhookLogService) ListSyncLogs(ctx context.Context, merchantID string, limit int) ([]integration.MenuSyncLog, error) {
	return s.logRepo.ListMenuSyncLogs(ctx, merchantID, limit)
}
