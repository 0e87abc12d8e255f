package integration

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/infrastructure/telemetry"
)

// Order sources recorded in metrics
const (
	SourceWebhook = "webhook"
	SourceSync    = "sync"
)

// maxSyncPages bounds one order pull
const maxSyncPages = 50

// OrderService ingests platform orders and relays order actions to the platform
type OrderService struct {
	orderRepo  order.Repository
	reconciler *order.Reconciler
	platform   integration.DeliveryPlatform
	archive    integration.PayloadArchive
	metrics    Metrics
	logger     *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.Repository,
	reconciler *order.Reconciler,
	platform integration.DeliveryPlatform,
	archive integration.PayloadArchive,
	metrics Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		reconciler: reconciler,
		platform:   platform,
		archive:    archive,
		metrics:    metricsOrNoop(metrics),
		logger:     logger,
	}
}

// Ingest validates an order document and stores it.
// Sending the same document again replaces the stored order and all of its lines.
func (s *OrderService) Ingest(ctx context.Context, body []byte, source string) (_ *IngestResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.ingest",
		attribute.String("order.source", source),
		attribute.Int("order.payload_bytes", len(body)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	payload, err := order.ParsePayload(body)
	if err != nil {
		return nil, err
	}

	o, issues := s.reconciler.Build(ctx, payload, body)
	span.SetAttributes(attribute.String("order.external_id", o.ExternalOrderID))
	log := s.logger.With(zap.String("order_id", o.ExternalOrderID), zap.String("source", source))
	for _, issue := range issues {
		log.Warn("Order line issue",
			zap.Int("line", issue.Index),
			zap.String("code", issue.Code),
			zap.String("message", issue.Message))
	}

	upsert, err := s.orderRepo.Upsert(ctx, o)
	if err != nil {
		log.Error("Failed to store order", zap.Error(err))
		return nil, err
	}

	result := &IngestResult{
		OrderID:         o.ID,
		ExternalOrderID: o.ExternalOrderID,
		Outcome:         upsert.Outcome,
		Lines:           len(o.Lines),
		UnresolvedLines: o.UnresolvedLines(),
		FailedLines:     upsert.FailedLines,
	}
	for _, issue := range issues {
		result.Issues = append(result.Issues, fmt.Sprintf("line %d: %s", issue.Index, issue.Message))
	}

	if key, err := s.archive.ArchiveOrder(ctx, o.ExternalOrderID, time.Now(), body); err != nil {
		log.Warn("Failed to archive order payload", zap.Error(err))
	} else {
		result.ArchiveKey = key
	}

	s.metrics.RecordOrderIngested(ctx, source, string(upsert.Outcome), result.UnresolvedLines)
	log.Info("Order stored",
		zap.String("outcome", string(upsert.Outcome)),
		zap.Int("lines", result.Lines),
		zap.Int("unresolved", result.UnresolvedLines),
		zap.Ints("failed_lines", upsert.FailedLines))
	return result, nil
}

// UpdateState applies an order-state notification to a stored order
func (s *OrderService) UpdateState(ctx context.Context, body []byte) (*order.Order, error) {
	update, err := order.ParseStatePayload(body)
	if err != nil {
		return nil, err
	}
	update.State = integration.NormalizeOrderState(update.State)

	o, err := s.orderRepo.FindByExternalID(ctx, update.ExternalOrderID)
	if err != nil {
		return nil, err
	}
	o.ApplyStateUpdate(*update)
	if err := s.orderRepo.UpdateState(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Order state updated",
		zap.String("order_id", o.ExternalOrderID),
		zap.String("state", o.State))
	return o, nil
}

// MarkOrder marks an order ready or completed on the platform.
// A completed mark also sets the local state to COMPLETED.
func (s *OrderService) MarkOrder(ctx context.Context, externalOrderID string, mark integration.OrderMark) (*order.Order, error) {
	if !mark.IsValid() {
		return nil, shared.NewDomainError("INVALID_MARK_STATUS", fmt.Sprintf("unknown mark status %d", mark))
	}
	o, err := s.orderRepo.FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.platform.MarkOrder(ctx, o.ExternalOrderID, mark); err != nil {
		s.metrics.RecordPlatformFailure(ctx, "mark_order", err)
		return nil, err
	}
	if mark == integration.OrderMarkCompleted {
		o.MarkCompleted()
		if err := s.orderRepo.UpdateState(ctx, o); err != nil {
			return nil, err
		}
	}
	s.logger.Info("Order marked", zap.String("order_id", o.ExternalOrderID), zap.String("mark", mark.String()))
	return o, nil
}

// UpdateReadyTime announces a new ready time and stores it as the scheduled time
func (s *OrderService) UpdateReadyTime(ctx context.Context, externalOrderID string, readyAt time.Time) (*order.Order, error) {
	if readyAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_READY_TIME", "ready time is required")
	}
	o, err := s.orderRepo.FindByExternalID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.platform.UpdateOrderReadyTime(ctx, o.ExternalOrderID, readyAt); err != nil {
		s.metrics.RecordPlatformFailure(ctx, "order_ready_time", err)
		return nil, err
	}
	o.SetReadyTime(readyAt)
	if err := s.orderRepo.UpdateState(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder loads an order with its lines, campaigns and promos
func (s *OrderService) GetOrder(ctx context.Context, externalOrderID string) (*order.Order, error) {
	return s.orderRepo.FindByExternalID(ctx, externalOrderID)
}

// ListOrders lists stored orders
func (s *OrderService) ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, int64, error) {
	return s.orderRepo.FindAll(ctx, filter)
}

// SyncOrders pulls a merchant's orders for one day and ingests each of them.
// A document that fails to ingest is counted and the pull continues.
func (s *OrderService) SyncOrders(ctx context.Context, merchantID string, date time.Time) (_ *SyncResult, err error) {
	if merchantID == "" {
		return nil, integration.ErrMenuMissingMerchant
	}
	ctx, span := telemetry.StartSpan(ctx, "order.sync",
		attribute.String("grab.merchant_id", merchantID),
		attribute.String("order.date", date.Format("2006-01-02")),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	result := &SyncResult{MerchantID: merchantID, Date: date.Format("2006-01-02")}

	for page := 1; page <= maxSyncPages; page++ {
		resp, err := s.platform.ListOrders(ctx, integration.OrderListRequest{
			MerchantID: merchantID,
			Date:       date,
			Page:       page,
		})
		if err != nil {
			s.metrics.RecordPlatformFailure(ctx, "list_orders", err)
			if result.Pages == 0 {
				return nil, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: %v", page, err))
			break
		}
		result.Pages++

		for _, raw := range resp.Orders {
			ingested, err := s.Ingest(ctx, raw, SourceSync)
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			if ingested.Outcome == order.OutcomeCreated {
				result.Created++
			} else {
				result.Replaced++
			}
		}
		if !resp.More {
			break
		}
	}

	s.logger.Info("Order sync finished",
		zap.String("merchant_id", merchantID),
		zap.String("date", result.Date),
		zap.Int("pages", result.Pages),
		zap.Int("created", result.Created),
		zap.Int("replaced", result.Replaced),
		zap.Int("failed", result.Failed))
	return result, nil
}
