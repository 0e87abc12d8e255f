package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/domain/order"
	"github.com/erp/grabfood/internal/infrastructure/logger"
	"github.com/erp/grabfood/internal/interfaces/http/dto"
)

// OrderIngester stores inbound order documents and state updates
type OrderIngester interface {
	Ingest(ctx context.Context, body []byte, source string) (*integrationapp.IngestResult, error)
	UpdateState(ctx context.Context, body []byte) (*order.Order, error)
}

// OrderWebhookHandler receives order pushes from the platform
type OrderWebhookHandler struct {
	BaseHandler
	orders OrderIngester
}

// NewOrderWebhookHandler creates a new OrderWebhookHandler
func NewOrderWebhookHandler(orders OrderIngester) *OrderWebhookHandler {
	return &OrderWebhookHandler{orders: orders}
}

// OrderStateData is returned after a state update
// @Description Updated order state
type OrderStateData struct {
	ExternalOrderID string `json:"external_order_id"`
	State           string `json:"state"`
	StateMessage    string `json:"state_message,omitempty"`
	StateCode       string `json:"state_code,omitempty"`
	DriverETA       *int   `json:"driver_eta,omitempty"`
}

// SubmitOrder godoc
// @ID           submitGrabOrder
// @Summary      Receive an order
// @Description  Validates and stores an order document. A known orderID replaces the stored order and its lines.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[integrationapp.IngestResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grab/webhook/order [post]
func (h *OrderWebhookHandler) SubmitOrder(c *gin.Context) {
	log := logger.GetGinLogger(c)

	body, err := c.GetRawData()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body could not be read")
		return
	}

	result, err := h.orders.Ingest(c.Request.Context(), body, integrationapp.SourceWebhook)
	if err != nil {
		log.Warn("Order rejected", zap.Int("bytes", len(body)), zap.Error(err))
		h.HandleError(c, err)
		return
	}

	log.Info("Order received",
		zap.String("order_id", result.ExternalOrderID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("lines", result.Lines),
		zap.Int("unresolved_lines", result.UnresolvedLines),
		zap.Int("bytes", len(body)))
	h.Success(c, result)
}

// UpdateOrderState godoc
// @ID           updateGrabOrderState
// @Summary      Receive an order state change
// @Description  Updates state, message, code and driver ETA of a stored order
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[OrderStateData]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /grab/webhook/order/state [put]
func (h *OrderWebhookHandler) UpdateOrderState(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeRequestTooLarge, "Request body could not be read")
		return
	}

	o, err := h.orders.UpdateState(c.Request.Context(), body)
	if err != nil {
		logger.GetGinLogger(c).Warn("Order state update rejected", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Order state updated",
		zap.String("order_id", o.ExternalOrderID),
		zap.String("state", o.State))
	h.Success(c, OrderStateData{
		ExternalOrderID: o.ExternalOrderID,
		State:           o.State,
		StateMessage:    o.StateMessage,
		StateCode:       o.StateCode,
		DriverETA:       o.DriverETA,
	})
}
