package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/shared"
)

// PricingService previews and applies platform price plans to menu items
type PricingService struct {
	itemRepo catalog.ItemRepository
	logger   *zap.Logger
}

// NewPricingService creates a new PricingService
func NewPricingService(itemRepo catalog.ItemRepository, logger *zap.Logger) *PricingService {
	return &PricingService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Preview quotes the plan for each item without saving. Items without a product are skipped.
func (s *PricingService) Preview(ctx context.Context, req PricePlanRequest) (*PricePreviewResponse, error) {
	plan := req.Plan()
	if err := plan.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE_PLAN", err.Error())
	}
	items, err := s.itemRepo.FindByIDs(ctx, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	resp := &PricePreviewResponse{
		Strategy:         string(plan.Strategy),
		MarkupPercentage: plan.MarkupPercentage,
		GSTRate:          plan.GSTRate.Decimal,
		Quotes:           make([]PriceQuoteResponse, 0, len(items)),
	}
	for i := range items {
		quote, ok := plan.Quote(&items[i])
		if !ok {
			resp.Skipped = append(resp.Skipped, items[i].ID)
			continue
		}
		resp.Quotes = append(resp.Quotes, toQuoteResponse(quote))
	}
	return resp, nil
}

// Apply stores the plan's prices on each item and switches it to platform pricing
func (s *PricingService) Apply(ctx context.Context, req PricePlanRequest) (*PriceApplyResponse, error) {
	plan := req.Plan()
	if err := plan.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE_PLAN", err.Error())
	}
	items, err := s.itemRepo.FindByIDs(ctx, req.ItemIDs)
	if err != nil {
		return nil, err
	}

	resp := &PriceApplyResponse{}
	for i := range items {
		item := &items[i]
		if !item.ApplyPricePlan(plan) {
			resp.Skipped = append(resp.Skipped, item.ID)
			continue
		}
		if err := s.itemRepo.SavePricing(ctx, item); err != nil {
			return nil, err
		}
		resp.Updated++
	}
	s.logger.Info("Applied price plan",
		zap.String("strategy", string(plan.Strategy)),
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", len(resp.Skipped)))
	return resp, nil
}
