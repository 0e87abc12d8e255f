package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	integrationapp "github.com/erp/grabfood/internal/application/integration"
	"github.com/erp/grabfood/internal/infrastructure/config"
)

// OrderSyncer pulls a merchant's orders for one day from the platform
type OrderSyncer interface {
	SyncOrders(ctx context.Context, merchantID string, date time.Time) (*integrationapp.SyncResult, error)
}

// OrderSyncSchedulerConfig holds configuration for the order sync worker pool
type OrderSyncSchedulerConfig struct {
	// MaxConcurrentJobs is the number of workers
	MaxConcurrentJobs int
	// QueueSize bounds the pending jobs
	QueueSize int
	// JobTimeout is the maximum time a job can run
	JobTimeout time.Duration
	// RetryAttempts is the number of retries for a failed job
	RetryAttempts int
	// RetryDelay is the base delay between retries (with exponential backoff)
	RetryDelay time.Duration
	// HistorySize is how many finished jobs are kept for inspection
	HistorySize int
}

// DefaultOrderSyncSchedulerConfig returns default configuration
func DefaultOrderSyncSchedulerConfig() OrderSyncSchedulerConfig {
	return OrderSyncSchedulerConfig{
		MaxConcurrentJobs: 2,
		QueueSize:         100,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     2,
		RetryDelay:        time.Minute,
		HistorySize:       100,
	}
}

// OrderSyncSchedulerConfigFrom maps the application settings onto the pool configuration
func OrderSyncSchedulerConfigFrom(cfg config.SchedulerConfig) OrderSyncSchedulerConfig {
	c := DefaultOrderSyncSchedulerConfig()
	if cfg.MaxConcurrentJobs > 0 {
		c.MaxConcurrentJobs = cfg.MaxConcurrentJobs
	}
	if cfg.JobTimeout > 0 {
		c.JobTimeout = cfg.JobTimeout
	}
	if cfg.RetryDelay > 0 {
		c.RetryDelay = cfg.RetryDelay
	}
	c.RetryAttempts = cfg.RetryAttempts
	return c
}

// Validate validates the configuration
func (c *OrderSyncSchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 || c.QueueSize <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.RetryAttempts < 0 || c.RetryDelay <= 0 {
		return ErrInvalidConfig
	}
	if c.HistorySize < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// OrderSyncScheduler runs order sync jobs on a worker pool
type OrderSyncScheduler struct {
	config OrderSyncSchedulerConfig
	syncer OrderSyncer
	logger *zap.Logger
	now    func() time.Time

	jobs      chan *OrderSyncJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	// active holds the keys of queued, running and retry-waiting jobs
	active map[string]struct{}

	historyMu sync.RWMutex
	history   []*OrderSyncJob
}

// NewOrderSyncScheduler creates a new order sync scheduler
func NewOrderSyncScheduler(cfg OrderSyncSchedulerConfig, syncer OrderSyncer, logger *zap.Logger) (*OrderSyncScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OrderSyncScheduler{
		config:  cfg,
		syncer:  syncer,
		logger:  logger,
		now:     time.Now,
		jobs:    make(chan *OrderSyncJob, cfg.QueueSize),
		active:  make(map[string]struct{}),
		history: make([]*OrderSyncJob, 0, cfg.HistorySize),
	}, nil
}

// Start starts the worker pool
func (s *OrderSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Order sync scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers
func (s *OrderSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Order sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Order sync scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the pool accepts jobs
func (s *OrderSyncScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// ScheduleSync queues a pull of merchantID's orders for the day of date
func (s *OrderSyncScheduler) ScheduleSync(merchantID string, date time.Time) (*OrderSyncJob, error) {
	job := NewOrderSyncJob(merchantID, date, s.config.RetryAttempts)
	if job.Date.After(s.now()) {
		return nil, ErrOrderSyncInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return nil, ErrSchedulerNotRunning
	}
	if _, ok := s.active[job.Key()]; ok {
		return nil, ErrOrderSyncAlreadyQueued
	}
	if err := s.enqueueLocked(job); err != nil {
		return nil, err
	}
	s.active[job.Key()] = struct{}{}
	return job, nil
}

// enqueueLocked sends without blocking; s.mu must be held so Stop cannot close the queue meanwhile
func (s *OrderSyncScheduler) enqueueLocked(job *OrderSyncJob) error {
	select {
	case s.jobs <- job:
		s.logger.Debug("Order sync job queued",
			zap.String("job_id", job.ID.String()),
			zap.String("merchant_id", job.MerchantID),
			zap.String("date", job.Date.Format(time.DateOnly)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *OrderSyncScheduler) requeue(job *OrderSyncJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		delete(s.active, job.Key())
		return
	}
	if err := s.enqueueLocked(job); err != nil {
		s.logger.Warn("Failed to requeue order sync job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		delete(s.active, job.Key())
	}
}

func (s *OrderSyncScheduler) release(job *OrderSyncJob) {
	s.mu.Lock()
	delete(s.active, job.Key())
	s.mu.Unlock()
}

func (s *OrderSyncScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-s.jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *OrderSyncScheduler) processJob(ctx context.Context, job *OrderSyncJob, workerID int) {
	job.Start(s.now())
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("merchant_id", job.MerchantID),
		zap.String("date", job.Date.Format(time.DateOnly)),
	)
	log.Info("Processing order sync job", zap.Int("retry_count", job.RetryCount))

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	result, err := s.syncer.SyncOrders(jobCtx, job.MerchantID, job.Date)
	if err != nil {
		job.Fail(err.Error(), s.now())
		log.Error("Order sync job failed", zap.Error(err))
		s.addToHistory(job)

		if job.ShouldRetry() && ctx.Err() == nil {
			job.ScheduleRetry(s.config.RetryDelay, s.now())
			delay := job.NextRetryAt.Sub(s.now())
			log.Info("Order sync job scheduled for retry",
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Duration("delay", delay),
			)
			time.AfterFunc(delay, func() { s.requeue(job) })
			return
		}
		s.release(job)
		return
	}

	job.Complete(result, s.now())
	log.Info("Order sync job completed",
		zap.String("status", string(job.Status)),
		zap.Int("pages", job.Pages),
		zap.Int("created", job.Created),
		zap.Int("replaced", job.Replaced),
		zap.Int("failed", job.Failed),
	)
	s.addToHistory(job)
	s.release(job)
}

func (s *OrderSyncScheduler) addToHistory(job *OrderSyncJob) {
	if s.config.HistorySize == 0 {
		return
	}
	snapshot := *job

	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	s.history = append([]*OrderSyncJob{&snapshot}, s.history...)
	if len(s.history) > s.config.HistorySize {
		s.history = s.history[:s.config.HistorySize]
	}
}

// GetJobHistory returns the most recent finished jobs, newest first.
// A limit of zero or less returns the whole history.
func (s *OrderSyncScheduler) GetJobHistory(limit int) []*OrderSyncJob {
	return s.GetJobHistoryByMerchant("", limit)
}

// GetJobHistoryByMerchant returns the most recent finished jobs of one merchant,
// newest first. An empty merchantID matches every job; a limit of zero or less means no limit.
func (s *OrderSyncScheduler) GetJobHistoryByMerchant(merchantID string, limit int) []*OrderSyncJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	result := make([]*OrderSyncJob, 0, len(s.history))
	for _, job := range s.history {
		if merchantID != "" && job.MerchantID != merchantID {
			continue
		}
		result = append(result, job)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result
}
