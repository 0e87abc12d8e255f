package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/infrastructure/persistence/models"
)

// GormWebhookLogRepository implements integration.WebhookLogRepository using GORM
type GormWebhookLogRepository struct {
	db *gorm.DB
}

// NewGormWebhookLogRepository creates a new GormWebhookLogRepository
func NewGormWebhookLogRepository(db *gorm.DB) *GormWebhookLogRepository {
	return &GormWebhookLogRepository{db: db}
}

var _ integration.WebhookLogRepository = (*GormWebhookLogRepository)(nil)

// SaveMenuSyncLog inserts a menu-sync-state log entry
func (r *GormWebhookLogRepository) SaveMenuSyncLog(ctx context.Context, log *integration.MenuSyncLog) error {
	var model models.MenuSyncLogModel
	model.FromDomain(log)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save menu sync log: %w", err)
	}
	return nil
}

// SaveIntegrationStatusLog inserts an integration-status log entry
func (r *GormWebhookLogRepository) SaveIntegrationStatusLog(ctx context.Context, log *integration.IntegrationStatusLog) error {
	var model models.IntegrationStatusLogModel
	model.FromDomain(log)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save integration status log: %w", err)
	}
	return nil
}

// SaveMenuPushLog inserts a menu push log entry
func (r *GormWebhookLogRepository) SaveMenuPushLog(ctx context.Context, log *integration.MenuPushLog) error {
	var model models.MenuPushLogModel
	model.FromDomain(log)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save menu push log: %w", err)
	}
	return nil
}

// ListMenuSyncLogs returns the newest sync logs, optionally for one merchant
func (r *GormWebhookLogRepository) ListMenuSyncLogs(ctx context.Context, merchantID string, limit int) ([]integration.MenuSyncLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := r.db.WithContext(ctx).Model(&models.MenuSyncLogModel{})
	if merchantID != "" {
		query = query.Where("merchant_id = ?", merchantID)
	}
	var rows []models.MenuSyncLogModel
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]integration.MenuSyncLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}
