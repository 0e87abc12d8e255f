package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ order.Repository = (*GormOrderRepository)(nil)

// Upsert stores an order and all its children in one transaction.
// Each line is written under its own savepoint so one bad line does not abort the order.
// A concurrent insert of the same external ID is retried once as a replacement.
func (r *GormOrderRepository) Upsert(ctx context.Context, o *order.Order) (*order.UpsertResult, error) {
	result, err := r.upsert(ctx, o)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		result, err = r.upsert(ctx, o)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", order.ErrDuplicateOrder, o.ExternalOrderID)
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *GormOrderRepository) upsert(ctx context.Context, o *order.Order) (*order.UpsertResult, error) {
	result := &order.UpsertResult{Outcome: order.OutcomeCreated}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.DeliveryOrderModel
		err := tx.Select("id", "created_at").
			Where("external_order_id = ?", o.ExternalOrderID).
			First(&existing).Error
		switch {
		case err == nil:
			o.AdoptIdentity(existing.ID, existing.CreatedAt)
			result.Outcome = order.OutcomeReplaced
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("failed to look up order: %w", err)
		}

		now := time.Now().UTC()
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		o.UpdatedAt = now

		var header models.DeliveryOrderModel
		header.FromDomain(o)

		if result.Outcome == order.OutcomeReplaced {
			if err := tx.Omit(clause.Associations).Save(&header).Error; err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			if err := deleteOrderChildren(tx, o.ExternalOrderID, header.ID); err != nil {
				return err
			}
		} else if err := tx.Omit(clause.Associations).Create(&header).Error; err != nil {
			return err
		}

		result.FailedLines = insertLines(tx, o)

		for i := range o.Campaigns {
			if err := tx.Create(models.DeliveryOrderCampaignModelFromDomain(&o.Campaigns[i])).Error; err != nil {
				return fmt.Errorf("failed to store campaign %d: %w", i, err)
			}
		}
		for i := range o.Promos {
			if err := tx.Create(models.DeliveryOrderPromoModelFromDomain(&o.Promos[i])).Error; err != nil {
				return fmt.Errorf("failed to store promo %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func deleteOrderChildren(tx *gorm.DB, externalID string, orderID uuid.UUID) error {
	for _, child := range []any{
		&models.DeliveryOrderLineModel{},
		&models.DeliveryOrderCampaignModel{},
		&models.DeliveryOrderPromoModel{},
	} {
		if err := tx.Where("order_id = ?", orderID).Delete(child).Error; err != nil {
			return fmt.Errorf("failed to clear children of order %s: %w", externalID, err)
		}
	}
	return nil
}

// insertLines writes every line under a savepoint and returns the indexes that failed
func insertLines(tx *gorm.DB, o *order.Order) []int {
	var failed []int
	for i := range o.Lines {
		name := fmt.Sprintf("order_line_%d", i)
		if err := tx.SavePoint(name).Error; err != nil {
			failed = append(failed, i)
			continue
		}
		row := models.DeliveryOrderLineModelFromDomain(&o.Lines[i], i)
		if err := tx.Create(row).Error; err != nil {
			tx.RollbackTo(name)
			failed = append(failed, i)
			continue
		}
		o.Lines[i].ID = row.ID
	}
	return failed
}

// FindByExternalID loads an order with its children
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	var model models.DeliveryOrderModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Campaigns").
		Preload("Promos").
		Where("external_order_id = ?", externalOrderID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders without children
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryOrderModel{})
	if filter.MerchantID != "" {
		query = query.Where("merchant_id = ?", filter.MerchantID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.From != nil {
		query = query.Where("order_time >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("order_time < ?", filter.To.UTC())
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("external_order_id LIKE ? OR short_order_number LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	var rows []models.DeliveryOrderModel
	if err := query.Omit("raw_payload").
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// UpdateState stores the state fields, driver ETA and scheduled time of an order
func (r *GormOrderRepository) UpdateState(ctx context.Context, o *order.Order) error {
	o.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.DeliveryOrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"state":          o.State,
			"state_message":  o.StateMessage,
			"state_code":     o.StateCode,
			"driver_eta":     o.DriverETA,
			"scheduled_time": o.ScheduledTime,
			"complete_time":  o.CompleteTime,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update order state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}
