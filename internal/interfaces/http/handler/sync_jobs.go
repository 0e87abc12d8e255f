package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erp/grabfood/internal/infrastructure/scheduler"
)

// SyncJobHistory reads finished order pull jobs
type SyncJobHistory interface {
	GetJobHistoryByMerchant(merchantID string, limit int) []*scheduler.OrderSyncJob
}

// SyncJobHandler exposes the periodic order pull history
type SyncJobHandler struct {
	BaseHandler
	history SyncJobHistory
}

// NewSyncJobHandler creates a new SyncJobHandler. A nil history means the pull is disabled.
func NewSyncJobHandler(history SyncJobHistory) *SyncJobHandler {
	return &SyncJobHandler{history: history}
}

// SyncJobResponse is one finished order pull job
// @Description Order pull job
type SyncJobResponse struct {
	ID          string     `json:"id"`
	MerchantID  string     `json:"merchant_id" example:"1-CYNGRUNGSBCCC"`
	Date        string     `json:"date" example:"2024-05-01"`
	Status      string     `json:"status" example:"SUCCESS"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RetryCount  int        `json:"retry_count"`
	Pages       int        `json:"pages"`
	Created     int        `json:"created"`
	Replaced    int        `json:"replaced"`
	Failed      int        `json:"failed"`
	Errors      []string   `json:"errors,omitempty"`
}

func toSyncJobResponse(job *scheduler.OrderSyncJob) SyncJobResponse {
	return SyncJobResponse{
		ID:          job.ID.String(),
		MerchantID:  job.MerchantID,
		Date:        job.Date.Format(time.DateOnly),
		Status:      string(job.Status),
		Error:       job.Error,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		RetryCount:  job.RetryCount,
		Pages:       job.Pages,
		Created:     job.Created,
		Replaced:    job.Replaced,
		Failed:      job.Failed,
		Errors:      job.Errors,
	}
}

// ListSyncJobs godoc
// @ID           listIntegrationSyncJobs
// @Summary      List finished order pull jobs
// @Description  Newest first. Empty when the periodic order pull is disabled.
// @Tags         integration
// @Produce      json
// @Param        merchant_id query string false "Platform merchant ID"
// @Param        limit query int false "Maximum entries" default(50)
// @Success      200 {object} APIResponse[[]SyncJobResponse]
// @Failure      400 {object} ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/v1/integration/sync-jobs [get]
func (h *SyncJobHandler) ListSyncJobs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			h.BadRequest(c, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	out := []SyncJobResponse{}
	if h.history != nil {
		for _, job := range h.history.GetJobHistoryByMerchant(strings.TrimSpace(c.Query("merchant_id")), limit) {
			out = append(out, toSyncJobResponse(job))
		}
	}
	h.Success(c, out)
}
