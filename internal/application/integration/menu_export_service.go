package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/catalog"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/shared"
)

// MenuExportService renders merchant menus as platform menu documents
type MenuExportService struct {
	menuRepo    catalog.MenuRepository
	productRepo catalog.ProductRepository
	builder     *integration.MenuBuilder
	archive     integration.PayloadArchive
	metrics     Metrics
	logger      *zap.Logger
}

// NewMenuExportService creates a new MenuExportService
func NewMenuExportService(
	menuRepo catalog.MenuRepository,
	productRepo catalog.ProductRepository,
	builder *integration.MenuBuilder,
	archive integration.PayloadArchive,
	metrics Metrics,
	logger *zap.Logger,
) *MenuExportService {
	return &MenuExportService{
		menuRepo:    menuRepo,
		productRepo: productRepo,
		builder:     builder,
		archive:     archive,
		metrics:     metricsOrNoop(metrics),
		logger:      logger,
	}
}

// ExportForMerchant renders the menu a platform merchant asked for.
// The menu is found by partner merchant ID, then merchant ID. A merchant without a menu
// gets a new empty one; a known menu adopts the identifiers of the request.
func (s *MenuExportService) ExportForMerchant(ctx context.Context, q MerchantQuery) (*ExportResult, error) {
	menu, err := findMerchantMenu(ctx, s.menuRepo, q)
	if err != nil {
		return nil, err
	}

	created := false
	if menu == nil {
		menu = catalog.NewMenuForMerchant(q.MerchantID, q.PartnerMerchantID)
		if err := s.menuRepo.Save(ctx, menu); err != nil {
			return nil, fmt.Errorf("create menu: %w", err)
		}
		created = true
		s.logger.Info("Created menu for merchant",
			zap.Int64("menu_id", menu.ID),
			zap.String("merchant_id", q.MerchantID),
			zap.String("partner_merchant_id", q.PartnerMerchantID))
	} else if menu.AdoptMerchantIDs(q.MerchantID, q.PartnerMerchantID) {
		if err := s.menuRepo.Save(ctx, menu); err != nil {
			return nil, fmt.Errorf("update menu merchant IDs: %w", err)
		}
	}

	result, err := s.render(ctx, menu, q)
	if err != nil {
		return nil, err
	}
	result.Created = created
	return result, nil
}

// ExportByMerchantID renders the menu of a merchant ID, or the first menu when merchantID is empty
func (s *MenuExportService) ExportByMerchantID(ctx context.Context, merchantID string) (*ExportResult, error) {
	var (
		menu *catalog.Menu
		err  error
	)
	if merchantID != "" {
		menu, err = s.menuRepo.FindByMerchantID(ctx, merchantID)
	} else {
		menu, err = s.menuRepo.FindFirst(ctx)
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, integration.ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.render(ctx, menu, MerchantQuery{MerchantID: merchantID})
}

// Preview renders a menu by ID without archiving it
func (s *MenuExportService) Preview(ctx context.Context, menuID int64) (*ExportResult, error) {
	menu, err := loadMenu(ctx, s.menuRepo, menuID)
	if err != nil {
		return nil, err
	}
	doc, issues := s.builder.Build(menu, s.buildInput(ctx, menu, MerchantQuery{}))
	return &ExportResult{MenuID: menu.ID, Document: doc, Issues: issues}, nil
}

func (s *MenuExportService) buildInput(ctx context.Context, menu *catalog.Menu, q MerchantQuery) integration.BuildInput {
	in := integration.BuildInput{
		MerchantID:        firstNonEmpty(q.MerchantID, menu.MerchantID),
		PartnerMerchantID: firstNonEmpty(q.PartnerMerchantID, menu.PartnerMerchantID),
	}
	placeholder, err := s.productRepo.FindFirstPublished(ctx)
	switch {
	case err == nil:
		in.Placeholder = placeholder
	case !errors.Is(err, shared.ErrNotFound):
		s.logger.Warn("Failed to load placeholder product", zap.Error(err))
	}
	return in
}

func (s *MenuExportService) render(ctx context.Context, menu *catalog.Menu, q MerchantQuery) (*ExportResult, error) {
	doc, issues := s.builder.Build(menu, s.buildInput(ctx, menu, q))
	for _, issue := range issues {
		s.logger.Warn("Menu export issue",
			zap.Int64("menu_id", menu.ID),
			zap.String("issue", issue.String()))
	}
	s.metrics.RecordMenuExport(ctx, doc.ItemCount())

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode menu document: %w", err)
	}
	if key, err := s.archive.ArchiveMenuExport(ctx, doc.MerchantID, time.Now(), body); err != nil {
		s.logger.Warn("Failed to archive menu export", zap.Int64("menu_id", menu.ID), zap.Error(err))
	} else if key != "" {
		s.logger.Debug("Archived menu export", zap.String("key", key))
	}

	return &ExportResult{MenuID: menu.ID, Document: doc, Issues: issues}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
