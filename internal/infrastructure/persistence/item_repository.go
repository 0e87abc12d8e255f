package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/infrastructure/persistence/models"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)

func withItemDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Product").
		Preload("Product.Variants").
		Preload("Product.AttributeLines.Values").
		Preload("ModifierGroups.Modifiers")
}

func (r *GormItemRepository) findOne(ctx context.Context, query string, args ...any) (*catalog.Item, error) {
	var model models.ItemModel
	err := withItemDetails(r.db.WithContext(ctx)).Where(query, args...).Order("id ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID loads an item with its product, attributes and modifier groups
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*catalog.Item, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByIDs loads several items; unknown IDs are skipped
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var rows []models.ItemModel
	if err := withItemDetails(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]catalog.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// FindByExternalCode finds the item whose stored external code equals code
func (r *GormItemRepository) FindByExternalCode(ctx context.Context, code string) (*catalog.Item, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "external_code = ?", code)
}

// FindByVariantID finds the item wrapping a product variant
func (r *GormItemRepository) FindByVariantID(ctx context.Context, variantID int64) (*catalog.Item, error) {
	return r.findOne(ctx, "variant_id = ?", variantID)
}

// FindByProductID finds the first item wrapping a product
func (r *GormItemRepository) FindByProductID(ctx context.Context, productID int64) (*catalog.Item, error) {
	return r.findOne(ctx, "product_id = ?", productID)
}

// ExistsInCategory checks whether a category already holds an item for a product
func (r *GormItemRepository) ExistsInCategory(ctx context.Context, categoryID, productID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("category_id = ? AND product_id = ?", categoryID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	var model models.ItemModel
	model.FromDomain(item)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	item.ID = model.ID
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// SavePricing stores the platform price fields of an item
func (r *GormItemRepository) SavePricing(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"price":          item.Price,
			"grab_price":     item.GrabPrice,
			"gst_rate":       item.GSTRate,
			"use_grab_price": item.UseGrabPrice,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save item pricing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceModifierGroups deletes an item's modifier groups and inserts groups in their place
func (r *GormItemRepository) ReplaceModifierGroups(ctx context.Context, itemID int64, groups []catalog.ModifierGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var groupIDs []int64
		if err := tx.Model(&models.ModifierGroupModel{}).
			Where("item_id = ?", itemID).
			Pluck("id", &groupIDs).Error; err != nil {
			return err
		}
		if len(groupIDs) > 0 {
			if err := tx.Where("group_id IN ?", groupIDs).Delete(&models.ModifierModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete modifiers: %w", err)
			}
			if err := tx.Where("id IN ?", groupIDs).Delete(&models.ModifierGroupModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete modifier groups: %w", err)
			}
		}
		for i := range groups {
			model := models.ModifierGroupModelFromDomain(itemID, &groups[i])
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to create modifier group %q: %w", groups[i].Name, err)
			}
			groups[i].ID = model.ID
			groups[i].ItemID = itemID
		}
		return tx.Model(&models.ItemModel{}).Where("id = ?", itemID).Update("updated_at", time.Now()).Error
	})
}
