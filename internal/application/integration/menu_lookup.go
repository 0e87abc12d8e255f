package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
)

// findMerchantMenu finds a menu by partner merchant ID, then merchant ID.
// Returns nil without error when neither matches.
func findMerchantMenu(ctx context.Context, repo catalog.MenuRepository, q MerchantQuery) (*catalog.Menu, error) {
	if q.PartnerMerchantID != "" {
		menu, err := repo.FindByPartnerMerchantID(ctx, q.PartnerMerchantID)
		if err == nil {
			return menu, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if q.MerchantID != "" {
		menu, err := repo.FindByMerchantID(ctx, q.MerchantID)
		if err == nil {
			return menu, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func loadMenu(ctx context.Context, repo catalog.MenuRepository, menuID int64) (*catalog.Menu, error) {
	menu, err := repo.FindByID(ctx, menuID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", integration.ErrMenuNotFound, menuID)
	}
	return menu, err
}
