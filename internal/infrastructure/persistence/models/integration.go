package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/grabfood/internal/domain/integration"
)

// MenuSyncLogModel is the persistence model for a menu-sync-state callback
type MenuSyncLogModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	RequestID         string     `gorm:"type:varchar(100);index"`
	JobID             string     `gorm:"type:varchar(100)"`
	MerchantID        string     `gorm:"type:varchar(100);index"`
	PartnerMerchantID string     `gorm:"type:varchar(100)"`
	Status            string     `gorm:"type:varchar(50)"`
	Errors            string     `gorm:"type:text"`
	ReportedAt        *time.Time `gorm:"column:reported_at"`
	ReportedAtRaw     string     `gorm:"column:reported_at_raw;type:varchar(100)"`
	CreatedAt         time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (MenuSyncLogModel) TableName() string {
	return "menu_sync_logs"
}

// ToDomain converts the persistence model to a domain MenuSyncLog
func (m *MenuSyncLogModel) ToDomain() integration.MenuSyncLog {
	return integration.MenuSyncLog{
		ID:                m.ID,
		RequestID:         m.RequestID,
		JobID:             m.JobID,
		MerchantID:        m.MerchantID,
		PartnerMerchantID: m.PartnerMerchantID,
		Status:            m.Status,
		Errors:            m.Errors,
		UpdatedAt:         utcPtr(m.ReportedAt),
		UpdatedAtRaw:      m.ReportedAtRaw,
		CreatedAt:         m.CreatedAt,
	}
}

// FromDomain populates the model from a domain MenuSyncLog
func (m *MenuSyncLogModel) FromDomain(l *integration.MenuSyncLog) {
	m.ID = l.ID
	m.RequestID = l.RequestID
	m.JobID = l.JobID
	m.MerchantID = l.MerchantID
	m.PartnerMerchantID = l.PartnerMerchantID
	m.Status = l.Status
	m.Errors = l.Errors
	m.ReportedAt = l.UpdatedAt
	m.ReportedAtRaw = l.UpdatedAtRaw
	m.CreatedAt = l.CreatedAt
}

// IntegrationStatusLogModel is the persistence model for an integration-status callback
type IntegrationStatusLogModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	MerchantID        string    `gorm:"type:varchar(100);index"`
	PartnerMerchantID string    `gorm:"type:varchar(100)"`
	Status            string    `gorm:"type:varchar(50)"`
	Payload           string    `gorm:"type:jsonb"`
	CreatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationStatusLogModel) TableName() string {
	return "integration_status_logs"
}

// FromDomain populates the model from a domain IntegrationStatusLog
func (m *IntegrationStatusLogModel) FromDomain(l *integration.IntegrationStatusLog) {
	m.ID = l.ID
	m.MerchantID = l.MerchantID
	m.PartnerMerchantID = l.PartnerMerchantID
	m.Status = l.Status
	m.Payload = jsonText(l.Payload)
	m.CreatedAt = l.CreatedAt
}

// MenuPushLogModel is the persistence model for a menu push callback
type MenuPushLogModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	MerchantID        string    `gorm:"type:varchar(100);index"`
	PartnerMerchantID string    `gorm:"type:varchar(100)"`
	Payload           string    `gorm:"type:jsonb"`
	CreatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MenuPushLogModel) TableName() string {
	return "menu_push_logs"
}

// FromDomain populates the model from a domain MenuPushLog
func (m *MenuPushLogModel) FromDomain(l *integration.MenuPushLog) {
	m.ID = l.ID
	m.MerchantID = l.MerchantID
	m.PartnerMerchantID = l.PartnerMerchantID
	m.Payload = jsonText(l.Payload)
	m.CreatedAt = l.CreatedAt
}

// All returns every model in dependency order, for AutoMigrate on databases without migrations
func All() []any {
	return []any{
		&ProductModel{},
		&VariantModel{},
		&AttributeLineModel{},
		&AttributeValueModel{},
		&MenuModel{},
		&SectionModel{},
		&CategoryModel{},
		&ItemModel{},
		&ModifierGroupModel{},
		&ModifierModel{},
		&DeliveryOrderModel{},
		&DeliveryOrderLineModel{},
		&DeliveryOrderCampaignModel{},
		&DeliveryOrderPromoModel{},
		&MenuSyncLogModel{},
		&IntegrationStatusLogModel{},
		&MenuPushLogModel{},
	}
}
