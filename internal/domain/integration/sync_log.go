package integration

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MenuSyncLog records a menu-sync-state callback from the platform
type MenuSyncLog struct {
	ID                uuid.UUID
	RequestID         string
	JobID             string
	MerchantID        string
	PartnerMerchantID string
	Status            string
	Errors            string
	UpdatedAt         *time.Time
	// UpdatedAtRaw keeps the reported timestamp when it could not be parsed
	UpdatedAtRaw string
	CreatedAt    time.Time
}

// NewMenuSyncLog creates a sync log entry; errs are joined one per line
func NewMenuSyncLog(requestID, jobID, merchantID, partnerMerchantID, status string, errs []string) *MenuSyncLog {
	return &MenuSyncLog{
		ID:                uuid.New(),
		RequestID:         requestID,
		JobID:             jobID,
		MerchantID:        merchantID,
		PartnerMerchantID: partnerMerchantID,
		Status:            status,
		Errors:            strings.Join(errs, "\n"),
		CreatedAt:         time.Now(),
	}
}

// IntegrationStatusLog records an integration-status callback
type IntegrationStatusLog struct {
	ID                uuid.UUID
	MerchantID        string
	PartnerMerchantID string
	Status            string
	Payload           json.RawMessage
	CreatedAt         time.Time
}

// MenuPushLog records a pushGrabMenu callback
type MenuPushLog struct {
	ID                uuid.UUID
	MerchantID        string
	PartnerMerchantID string
	Payload           json.RawMessage
	CreatedAt         time.Time
}

// WebhookLogRepository persists platform callback logs
type WebhookLogRepository interface {
	SaveMenuSyncLog(ctx context.Context, log *MenuSyncLog) error
	SaveIntegrationStatusLog(ctx context.Context, log *IntegrationStatusLog) error
	SaveMenuPushLog(ctx context.Context, log *MenuPushLog) error
	ListMenuSyncLogs(ctx context.Context, merchantID string, limit int) ([]MenuSyncLog, error)
}
