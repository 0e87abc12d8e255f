package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/domain/shared"
	"github.com/erp/grabfood/internal/infrastructure/logger"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
	"github.com/erp/grabfood/internal/interfaces/http/middleware"
)

// MenuPlatform runs the outbound menu calls
type MenuPlatform interface {
	PushMenu(ctx context.Context, menuID int64) (*integrationapp.PushResult, error)
	ActivationURL(ctx context.Context, menuID int64) (string, error)
	MenuTrace(ctx context.Context, menuID int64) (*integration.MenuTrace, error)
	PushCooldownRemaining(ctx context.Context, merchantID string) (time.Duration, error)
}

// MenuPreviewer renders a menu without archiving it
type MenuPreviewer interface {
	Preview(ctx context.Context, menuID int64) (*integrationapp.ExportResult, error)
}

// OrderManager reads stored orders and drives the outbound order calls
type OrderManager interface {
	GetOrder(ctx context.Context, externalOrderID string) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.Filter) ([]order.Order, int64, error)
	MarkOrder(ctx context.Context, externalOrderID string, mark integration.OrderMark) (*order.Order, error)
	UpdateReadyTime(ctx context.Context, externalOrderID string, readyAt time.Time) (*order.Order, error)
	SyncOrders(ctx context.Context, merchantID string, date time.Time) (*integrationapp.SyncResult, error)
}

// SyncLogReader lists recorded menu sync callbacks
type SyncLogReader interface {
	ListSyncLogs(ctx context.Context, merchantID string, limit int) ([]integration.MenuSyncLog, error)
}

// IntegrationHandler serves the admin API over menus, orders and platform calls
type IntegrationHandler struct {
	BaseHandler
	platform MenuPlatform
	preview  MenuPreviewer
	orders   OrderManager
	logs     SyncLogReader
	now      func() time.Time
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(platform MenuPlatform, preview MenuPreviewer, orders OrderManager, logs SyncLogReader) *IntegrationHandler {
	return &IntegrationHandler{
		platform: platform,
		preview:  preview,
		orders:   orders,
		logs:     logs,
		now:      time.Now,
	}
}

// MenuTraceData is a menu sync trace
// @Description Menu sync trace
type MenuTraceData struct {
	Key   string         `json:"key" example:"jobID"`
	Value string         `json:"value"`
	Body  map[string]any `json:"body"`
}

// MenuPreviewData is a rendered menu with the issues met while building it
// @Description Menu export preview
type MenuPreviewData struct {
	MenuID    int64                     `json:"menu_id"`
	ItemCount int                       `json:"item_count"`
	Issues    []string                  `json:"issues,omitempty"`
	Document  *integration.MenuDocument `json:"document"`
}

// MarkOrderRequest is the body of a mark-order call
// @Description Mark order request
type MarkOrderRequest struct {
	MarkStatus int `json:"mark_status" binding:"required,grab_mark" example:"1"`
}

// ReadyTimeRequest is the body of a ready-time call
// @Description New order ready time
type ReadyTimeRequest struct {
	ReadyTime time.Time `json:"ready_time" binding:"required" example:"2024-05-01T12:30:00Z"`
}

// SyncOrdersRequest selects the merchant and day to pull orders for
// @Description Order sync request
type SyncOrdersRequest struct {
	MerchantID string `json:"merchant_id" binding:"required" example:"1-CYNGRUNGSBCCC"`
	// Date is YYYY-MM-DD; today when empty
	Date string `json:"date" example:"2024-05-01"`
}

// ListOrdersQuery filters the order list
type ListOrdersQuery struct {
	dto.ListRequest
	MerchantID string `form:"merchant_id"`
	State      string `form:"state"`
	From       string `form:"from"`
	To         string `form:"to"`
}

// PushMenu godoc
// @ID           pushIntegrationMenu
// @Summary      Notify the platform of a menu update
// @Description  Asks the platform to pull the menu again. A merchant can be pushed once per cooldown.
// @Tags         integration
// @Produce      json
// @Param        id path int true "Menu ID"
// @Success      200 {object} APIResponse[integrationapp.PushResult]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/menus/{id}/push [post]
func (h *IntegrationHandler) PushMenu(c *gin.Context) {
	menuID, ok := h.menuID(c)
	if !ok {
		return
	}
	result, err := h.platform.PushMenu(c.Request.Context(), menuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Menu push requested",
		zap.Int64("menu_id", menuID),
		zap.String("merchant_id", result.MerchantID),
		zap.Int("status_code", result.StatusCode))
	h.Success(c, result)
}

// ActivationURL godoc
// @ID           getIntegrationActivationURL
// @Summary      Get the self-serve activation URL
// @Tags         integration
// @Produce      json
// @Param        id path int true "Menu ID"
// @Success      200 {object} APIResponse[URLData]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/menus/{id}/activation-url [get]
func (h *IntegrationHandler) ActivationURL(c *gin.Context) {
	menuID, ok := h.menuID(c)
	if !ok {
		return
	}
	url, err := h.platform.ActivationURL(c.Request.Context(), menuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, URLData{URL: url})
}

// MenuTrace godoc
// @ID           getIntegrationMenuTrace
// @Summary      Trace the last menu sync
// @Description  Queries the platform with the request or job ID last reported for the menu
// @Tags         integration
// @Produce      json
// @Param        id path int true "Menu ID"
// @Success      200 {object} APIResponse[MenuTraceData]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/menus/{id}/trace [get]
func (h *IntegrationHandler) MenuTrace(c *gin.Context) {
	menuID, ok := h.menuID(c)
	if !ok {
		return
	}
	trace, err := h.platform.MenuTrace(c.Request.Context(), menuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MenuTraceData{Key: trace.Key, Value: trace.Value, Body: trace.Body})
}

// PreviewMenu godoc
// @ID           previewIntegrationMenu
// @Summary      Preview the menu export document
// @Tags         integration
// @Produce      json
// @Param        id path int true "Menu ID"
// @Success      200 {object} APIResponse[MenuPreviewData]
// @Failure      404 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/menus/{id}/preview [get]
func (h *IntegrationHandler) PreviewMenu(c *gin.Context) {
	menuID, ok := h.menuID(c)
	if !ok {
		return
	}
	result, err := h.preview.Preview(c.Request.Context(), menuID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	data := MenuPreviewData{
		MenuID:    result.MenuID,
		ItemCount: result.Document.ItemCount(),
		Document:  result.Document,
	}
	for _, issue := range result.Issues {
		data.Issues = append(data.Issues, issue.String())
	}
	h.Success(c, data)
}

// PushCooldown godoc
// @ID           getIntegrationPushCooldown
// @Summary      Remaining menu push cooldown for a merchant
// @Tags         integration
// @Produce      json
// @Param        merchant_id path string true "Platform merchant ID"
// @Success      200 {object} APIResponse[CooldownData]
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/merchants/{merchant_id}/push-cooldown [get]
func (h *IntegrationHandler) PushCooldown(c *gin.Context) {
	merchantID := strings.TrimSpace(c.Param("merchant_id"))
	remaining, err := h.platform.PushCooldownRemaining(c.Request.Context(), merchantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CooldownData{MerchantID: merchantID, RemainingSeconds: int64(remaining.Round(time.Second) / time.Second)})
}

// ListOrders godoc
// @ID           listIntegrationOrders
// @Summary      List stored orders
// @Tags         integration
// @Produce      json
// @Param        merchant_id query string false "Platform merchant ID"
// @Param        state query string false "Order state"
// @Param        from query string false "Earliest order time (RFC3339 or YYYY-MM-DD)"
// @Param        to query string false "Latest order time (RFC3339 or YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]integrationapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/orders [get]
func (h *IntegrationHandler) ListOrders(c *gin.Context) {
	q := ListOrdersQuery{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := order.Filter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  "order_time",
			OrderDir: "desc",
		},
		MerchantID: strings.TrimSpace(q.MerchantID),
		State:      strings.ToUpper(strings.TrimSpace(q.State)),
	}
	var err error
	if filter.From, err = parseQueryTime(q.From, false); err != nil {
		h.BadRequest(c, "Invalid from: "+err.Error())
		return
	}
	if filter.To, err = parseQueryTime(q.To, true); err != nil {
		h.BadRequest(c, "Invalid to: "+err.Error())
		return
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, integrationapp.ToOrderResponses(orders), total, q.Page, q.PageSize)
}

// GetOrder godoc
// @ID           getIntegrationOrder
// @Summary      Get a stored order
// @Tags         integration
// @Produce      json
// @Param        order_id path string true "Platform order ID"
// @Success      200 {object} APIResponse[integrationapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/orders/{order_id} [get]
func (h *IntegrationHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integrationapp.ToOrderResponse(o))
}

// MarkOrder godoc
// @ID           markIntegrationOrder
// @Summary      Mark an order ready or completed
// @Description  mark_status 1 tells the platform the food is ready, 2 completes the order
// @Tags         integration
// @Accept       json
// @Produce      json
// @Param        order_id path string true "Platform order ID"
// @Param        request body MarkOrderRequest true "Mark status"
// @Success      200 {object} APIResponse[integrationapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/orders/{order_id}/mark [post]
func (h *IntegrationHandler) MarkOrder(c *gin.Context) {
	var req MarkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	o, err := h.orders.MarkOrder(c.Request.Context(), c.Param("order_id"), integration.OrderMark(req.MarkStatus))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integrationapp.ToOrderResponse(o))
}

// UpdateReadyTime godoc
// @ID           updateIntegrationOrderReadyTime
// @Summary      Send a new order ready time
// @Tags         integration
// @Accept       json
// @Produce      json
// @Param        order_id path string true "Platform order ID"
// @Param        request body ReadyTimeRequest true "Ready time"
// @Success      200 {object} APIResponse[integrationapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/orders/{order_id}/ready-time [put]
func (h *IntegrationHandler) UpdateReadyTime(c *gin.Context) {
	var req ReadyTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	o, err := h.orders.UpdateReadyTime(c.Request.Context(), c.Param("order_id"), req.ReadyTime)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integrationapp.ToOrderResponse(o))
}

// SyncOrders godoc
// @ID           syncIntegrationOrders
// @Summary      Pull a day of orders from the platform
// @Tags         integration
// @Accept       json
// @Produce      json
// @Param        request body SyncOrdersRequest true "Merchant and day"
// @Success      200 {object} APIResponse[integrationapp.SyncResult]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/orders/sync [post]
func (h *IntegrationHandler) SyncOrders(c *gin.Context) {
	var req SyncOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	date := h.now().UTC()
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(req.Date))
		if err != nil {
			h.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.orders.SyncOrders(c.Request.Context(), strings.TrimSpace(req.MerchantID), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("Orders synced",
		zap.String("merchant_id", result.MerchantID),
		zap.String("date", result.Date),
		zap.Int("created", result.Created),
		zap.Int("replaced", result.Replaced),
		zap.Int("failed", result.Failed))
	h.Success(c, result)
}

// ListSyncLogs godoc
// @ID           listIntegrationSyncLogs
// @Summary      List menu sync callbacks
// @Tags         integration
// @Produce      json
// @Param        merchant_id query string false "Platform merchant ID"
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]integrationapp.MenuSyncLogResponse]
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/sync-logs [get]
func (h *IntegrationHandler) ListSyncLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			h.BadRequest(c, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	logs, err := h.logs.ListSyncLogs(c.Request.Context(), strings.TrimSpace(c.Query("merchant_id")), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, integrationapp.ToMenuSyncLogResponses(logs))
}

func (h *IntegrationHandler) menuID(c *gin.Context) (int64, bool) {
	var req dto.MenuIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid menu ID")
		return 0, false
	}
	return req.ID, true
}

// parseQueryTime accepts RFC3339 or a bare date. A bare upper bound covers the whole day.
func parseQueryTime(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
