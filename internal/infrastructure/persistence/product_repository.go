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

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

func withProductDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("AttributeLines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("AttributeLines.Values", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// FindByID loads a product with its variants and attribute lines
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withProductDetails(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindFirstPublished returns the first website-published product
func (r *GormProductRepository) FindFirstPublished(ctx context.Context) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withProductDetails(r.db.WithContext(ctx)).
		Where("website_published = ?", true).
		Order("id ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormProductRepository) findVariant(ctx context.Context, column, value string) (*catalog.Variant, error) {
	if value == "" {
		return nil, shared.ErrNotFound
	}
	var model models.VariantModel
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", value).
		Order("id ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	v := model.ToDomain()
	return &v, nil
}

// FindVariantBySKU finds a variant by its SKU code
func (r *GormProductRepository) FindVariantBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	return r.findVariant(ctx, "sku", sku)
}

// FindVariantByBarcode finds a variant by its barcode
func (r *GormProductRepository) FindVariantByBarcode(ctx context.Context, barcode string) (*catalog.Variant, error) {
	return r.findVariant(ctx, "barcode", barcode)
}

// FindSellableByCategory lists active, sellable products of a product category
func (r *GormProductRepository) FindSellableByCategory(ctx context.Context, productCategoryID int64) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := withProductDetails(r.db.WithContext(ctx)).
		Where("product_category_id = ? AND active = ? AND sale_ok = ?", productCategoryID, true, true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Save creates or updates a product with its variants and attribute lines.
// Existing children are replaced; their IDs are kept when set.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	if model.WriteDate.IsZero() {
		model.WriteDate = time.Now()
	}
	for i := range model.Variants {
		if model.Variants[i].WriteDate.IsZero() {
			model.Variants[i].WriteDate = model.WriteDate
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.ID == 0 {
			return tx.Create(&model).Error
		}
		if err := tx.Omit(clause.Associations).Save(&model).Error; err != nil {
			return err
		}
		var lineIDs []int64
		if err := tx.Model(&models.AttributeLineModel{}).
			Where("product_id = ?", model.ID).
			Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("line_id IN ?", lineIDs).Delete(&models.AttributeValueModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("product_id = ?", model.ID).Delete(&models.AttributeLineModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", model.ID).Delete(&models.VariantModel{}).Error; err != nil {
			return err
		}
		for i := range model.Variants {
			model.Variants[i].ProductID = model.ID
			if err := tx.Create(&model.Variants[i]).Error; err != nil {
				return err
			}
		}
		for i := range model.AttributeLines {
			model.AttributeLines[i].ProductID = model.ID
			if err := tx.Create(&model.AttributeLines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	*product = *model.ToDomain()
	return nil
}
