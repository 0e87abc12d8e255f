package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/infrastructure/persistence/models"
)

// GormMenuRepository implements catalog.MenuRepository using GORM
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GormMenuRepository
func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

var _ catalog.MenuRepository = (*GormMenuRepository)(nil)

// withTree preloads every level of a menu tree down to item products and modifiers
func withTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sections").
		Preload("Sections.Categories").
		Preload("Sections.Categories.Items").
		Preload("Sections.Categories.Items.Product").
		Preload("Sections.Categories.Items.Product.Variants").
		Preload("Sections.Categories.Items.Product.AttributeLines.Values").
		Preload("Sections.Categories.Items.ModifierGroups.Modifiers")
}

func (r *GormMenuRepository) findOne(ctx context.Context, query string, args ...any) (*catalog.Menu, error) {
	var model models.MenuModel
	err := withTree(r.db.WithContext(ctx)).Where(query, args...).Order("id ASC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	menu := model.ToDomain()
	menu.SortTree()
	return menu, nil
}

// FindByID loads a menu with its full tree in display order
func (r *GormMenuRepository) FindByID(ctx context.Context, id int64) (*catalog.Menu, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByPartnerMerchantID loads the menu owned by a partner merchant ID
func (r *GormMenuRepository) FindByPartnerMerchantID(ctx context.Context, partnerMerchantID string) (*catalog.Menu, error) {
	if partnerMerchantID == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "partner_merchant_id = ?", partnerMerchantID)
}

// FindByMerchantID loads the menu owned by a platform merchant ID
func (r *GormMenuRepository) FindByMerchantID(ctx context.Context, merchantID string) (*catalog.Menu, error) {
	if merchantID == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, "merchant_id = ?", merchantID)
}

// FindFirst loads the menu with the lowest ID
func (r *GormMenuRepository) FindFirst(ctx context.Context) (*catalog.Menu, error) {
	return r.findOne(ctx, "1 = 1")
}

// FindAll lists menu headers without their trees
func (r *GormMenuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Menu, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MenuModel{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR merchant_id LIKE ? OR partner_merchant_id LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, MenuSortFields, "id")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	var rows []models.MenuModel
	if err := query.Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	menus := make([]catalog.Menu, len(rows))
	for i := range rows {
		menus[i] = *rows[i].ToDomain()
	}
	return menus, total, nil
}

// FindCategory loads one category with its items
func (r *GormMenuRepository) FindCategory(ctx context.Context, categoryID int64) (*catalog.Category, error) {
	var model models.CategoryModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC, id ASC") }).
		First(&model, "id = ?", categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	category := model.ToDomain()
	return &category, nil
}

// Save creates or updates a menu header. The tree is not written.
func (r *GormMenuRepository) Save(ctx context.Context, menu *catalog.Menu) error {
	var model models.MenuModel
	model.FromDomain(menu)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}
	menu.ID = model.ID
	menu.CreatedAt = model.CreatedAt
	menu.UpdatedAt = model.UpdatedAt
	return nil
}
