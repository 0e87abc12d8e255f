package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
)

// ModifierSyncService rebuilds item modifier groups from product attributes
type ModifierSyncService struct {
	itemRepo catalog.ItemRepository
	logger   *zap.Logger
}

// NewModifierSyncService creates a new ModifierSyncService
func NewModifierSyncService(itemRepo catalog.ItemRepository, logger *zap.Logger) *ModifierSyncService {
	return &ModifierSyncService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Sync replaces the modifier groups of each item with one group per product attribute.
// Items without a product keep their groups.
func (s *ModifierSyncService) Sync(ctx context.Context, itemIDs []int64) (*ModifierSyncResponse, error) {
	items, err := s.itemRepo.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	resp := &ModifierSyncResponse{}
	for i := range items {
		item := &items[i]
		if item.Product == nil {
			continue
		}
		groups := item.ModifierGroupsFromAttributes()
		if err := s.itemRepo.ReplaceModifierGroups(ctx, item.ID, groups); err != nil {
			return nil, err
		}
		resp.Items++
		resp.Groups += len(groups)
		for _, g := range groups {
			resp.Modifiers += len(g.Modifiers)
		}
	}
	s.logger.Info("Synced modifiers from attributes",
		zap.Int("items", resp.Items),
		zap.Int("groups", resp.Groups))
	return resp, nil
}
