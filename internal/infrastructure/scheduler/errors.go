package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to submit a job to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull is returned when the job queue is full
	ErrJobQueueFull = errors.New("job queue is full")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrOrderSyncInvalidDate is returned for a sync day in the future
	ErrOrderSyncInvalidDate = errors.New("order sync date is in the future")

	// ErrOrderSyncAlreadyQueued is returned when the merchant and day already have a pending job
	ErrOrderSyncAlreadyQueued = errors.New("order sync already queued for this merchant and day")
)
