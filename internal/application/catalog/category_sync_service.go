package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
)

// CategorySyncService fills menu categories from their linked product categories
type CategorySyncService struct {
	menuRepo    catalog.MenuRepository
	itemRepo    catalog.ItemRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCategorySyncService creates a new CategorySyncService
func NewCategorySyncService(
	menuRepo catalog.MenuRepository,
	itemRepo catalog.ItemRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CategorySyncService {
	return &CategorySyncService{
		menuRepo:    menuRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Sync creates an item for every active, sellable product of the category's product category
// that the menu category does not hold yet
func (s *CategorySyncService) Sync(ctx context.Context, categoryID int64) (*CategorySyncResponse, error) {
	category, err := s.menuRepo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.ProductCategoryID == nil {
		return nil, shared.NewDomainError("NO_PRODUCT_CATEGORY", "menu category is not linked to a product category")
	}

	products, err := s.productRepo.FindSellableByCategory(ctx, *category.ProductCategoryID)
	if err != nil {
		return nil, err
	}

	resp := &CategorySyncResponse{CategoryID: category.ID, Created: []int64{}}
	sequence := len(category.Items)
	for _, p := range products {
		exists, err := s.itemRepo.ExistsInCategory(ctx, category.ID, p.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			resp.Skipped++
			continue
		}
		sequence++
		item := &catalog.Item{
			CategoryID:      category.ID,
			ProductID:       p.ID,
			Name:            p.Name,
			Sequence:        sequence,
			AvailableStatus: "AVAILABLE",
			UpdatedAt:       time.Now(),
		}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, err
		}
		resp.Created = append(resp.Created, item.ID)
	}

	s.logger.Info("Synced category products",
		zap.Int64("category_id", category.ID),
		zap.Int("created", len(resp.Created)),
		zap.Int("skipped", resp.Skipped))
	return resp, nil
}
