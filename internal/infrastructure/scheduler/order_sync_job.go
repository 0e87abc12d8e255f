package scheduler

import (
	"time"

	"github.com/google/uuid"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
)

// OrderSyncJobStatus represents the status of an order sync job
type OrderSyncJobStatus string

const (
	OrderSyncJobStatusPending OrderSyncJobStatus = "PENDING"
	OrderSyncJobStatusRunning OrderSyncJobStatus = "RUNNING"
	OrderSyncJobStatusSuccess OrderSyncJobStatus = "SUCCESS"
	OrderSyncJobStatusPartial OrderSyncJobStatus = "PARTIAL"
	OrderSyncJobStatusFailed  OrderSyncJobStatus = "FAILED"
)

// maxRetryDelay caps the exponential retry backoff
const maxRetryDelay = 30 * time.Minute

// OrderSyncJob pulls one merchant's orders for one day
type OrderSyncJob struct {
	ID          uuid.UUID
	MerchantID  string
	Date        time.Time
	Status      OrderSyncJobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	Pages    int
	Created  int
	Replaced int
	Failed   int
	Errors   []string
}

// NewOrderSyncJob creates a pending job; date is truncated to its UTC day
func NewOrderSyncJob(merchantID string, date time.Time, maxRetries int) *OrderSyncJob {
	return &OrderSyncJob{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Date:       date.UTC().Truncate(24 * time.Hour),
		Status:     OrderSyncJobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Key identifies the merchant and day of the job
func (j *OrderSyncJob) Key() string {
	return j.MerchantID + "@" + j.Date.Format(time.DateOnly)
}

// Start marks the job as running
func (j *OrderSyncJob) Start(now time.Time) {
	j.Status = OrderSyncJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete records a finished pull. Any failed document or page makes the job partial.
func (j *OrderSyncJob) Complete(result *integrationapp.SyncResult, now time.Time) {
	j.Pages = result.Pages
	j.Created = result.Created
	j.Replaced = result.Replaced
	j.Failed = result.Failed
	j.Errors = result.Errors
	j.CompletedAt = &now

	if result.Failed == 0 && len(result.Errors) == 0 {
		j.Status = OrderSyncJobStatusSuccess
	} else {
		j.Status = OrderSyncJobStatusPartial
	}
}

// Fail marks the job as failed
func (j *OrderSyncJob) Fail(err string, now time.Time) {
	j.Status = OrderSyncJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *OrderSyncJob) ShouldRetry() bool {
	return j.Status == OrderSyncJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry requeues the job after baseDelay * 2^(retries-1), capped at 30 minutes
func (j *OrderSyncJob) ScheduleRetry(baseDelay time.Duration, now time.Time) {
	j.RetryCount++
	j.Status = OrderSyncJobStatusPending
	delay := baseDelay * time.Duration(1<<(j.RetryCount-1))
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	next := now.Add(delay)
	j.NextRetryAt = &next
	j.Error = ""
}
