package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/erp/grabfood/internal/application/catalog"
	"github.com/erp/grabfood/internal/infrastructure/logger"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
	"github.com/erp/grabfood/internal/interfaces/http/middleware"
)

// PriceWizard previews and applies platform price plans
type PriceWizard interface {
	Preview(ctx context.Context, req catalogapp.PricePlanRequest) (*catalogapp.PricePreviewResponse, error)
	Apply(ctx context.Context, req catalogapp.PricePlanRequest) (*catalogapp.PriceApplyResponse, error)
}

// ModifierSyncer rebuilds modifier groups from product attributes
type ModifierSyncer interface {
	Sync(ctx context.Context, itemIDs []int64) (*catalogapp.ModifierSyncResponse, error)
}

// CategorySyncer creates menu items from a linked product category
type CategorySyncer interface {
	Sync(ctx context.Context, categoryID int64) (*catalogapp.CategorySyncResponse, error)
}

// CatalogHandler serves menu catalog maintenance
type CatalogHandler struct {
	BaseHandler
	pricing    PriceWizard
	modifiers  ModifierSyncer
	categories CategorySyncer
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(pricing PriceWizard, modifiers ModifierSyncer, categories CategorySyncer) *CatalogHandler {
	return &CatalogHandler{
		pricing:    pricing,
		modifiers:  modifiers,
		categories: categories,
	}
}

// PreviewPrices godoc
// @ID           previewCatalogPrices
// @Summary      Preview a platform price plan
// @Description  copy keeps the list price, markup adds markup_percentage (default 20), custom uses custom_base_price. GST defaults to 7%.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.PricePlanRequest true "Price plan"
// @Success      200 {object} APIResponse[catalogapp.PricePreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/catalog/pricing/preview [post]
func (h *CatalogHandler) PreviewPrices(c *gin.Context) {
	var req catalogapp.PricePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.pricing.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApplyPrices godoc
// @ID           applyCatalogPrices
// @Summary      Apply a platform price plan
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.PricePlanRequest true "Price plan"
// @Success      200 {object} APIResponse[catalogapp.PriceApplyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/catalog/pricing/apply [post]
func (h *CatalogHandler) ApplyPrices(c *gin.Context) {
	var req catalogapp.PricePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.pricing.Apply(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Platform prices applied",
		zap.Int("updated", resp.Updated),
		zap.Int("skipped", len(resp.Skipped)))
	h.Success(c, resp)
}

// SyncModifiers godoc
// @ID           syncCatalogModifiers
// @Summary      Rebuild modifier groups from product attributes
// @Description  Replaces each item's modifier groups with one required group per attribute
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ItemIDsRequest true "Items"
// @Success      200 {object} APIResponse[catalogapp.ModifierSyncResponse]
// @Failure      400 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/catalog/modifiers/sync [post]
func (h *CatalogHandler) SyncModifiers(c *gin.Context) {
	var req catalogapp.ItemIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.modifiers.Sync(c.Request.Context(), req.ItemIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SyncCategory godoc
// @ID           syncCatalogCategory
// @Summary      Create items from the linked product category
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Menu category ID"
// @Success      200 {object} APIResponse[catalogapp.CategorySyncResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/catalog/categories/{id}/sync [post]
func (h *CatalogHandler) SyncCategory(c *gin.Context) {
	var uri dto.MenuIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	resp, err := h.categories.Sync(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Category items synced",
		zap.Int64("category_id", resp.CategoryID),
		zap.Int("created", len(resp.Created)))
	h.Success(c, resp)
}
