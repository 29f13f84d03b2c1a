// Package worker drains the email job queue out of the request path.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/airyshop/storefront/internal/email"
	"github.com/airyshop/storefront/internal/jobs"
	"github.com/airyshop/storefront/internal/store"
	"github.com/airyshop/storefront/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often to check for new jobs
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int

	// JobTimeout bounds the processing time of a single job
	JobTimeout time.Duration
}

// Worker processes queued email jobs
type Worker struct {
	config       Config
	queue        store.EmailJobStore
	emailService *email.Service
	metrics      *telemetry.BusinessMetrics
	logger       *slog.Logger
}

// NewWorker creates a new background job worker
func NewWorker(queue store.EmailJobStore, emailService *email.Service, metrics *telemetry.BusinessMetrics, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 30 * time.Second
	}

	return &Worker{
		config:       config,
		queue:        queue,
		emailService: emailService,
		metrics:      metrics,
		logger:       logger,
	}
}

// Start begins processing jobs until the context is cancelled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Semaphore for concurrency control
	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			return ctx.Err()

		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				go func() {
					defer func() { <-sem }()
					w.claimAndProcess(ctx)
				}()
			default:
				// At max concurrency, skip this poll
			}
		}
	}
}

// claimAndProcess claims and processes a single job
func (w *Worker) claimAndProcess(ctx context.Context) {
	job, err := w.queue.ClaimNextEmailJob(ctx, w.config.WorkerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			w.logger.Error("failed to claim job", "error", err)
		}
		return
	}

	w.logger.Info("processing job",
		"job_id", job.ID,
		"job_type", job.JobType,
	)

	started := time.Now()
	err = w.processJob(ctx, job)
	w.metrics.JobDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		w.logger.Error("job failed",
			"job_id", job.ID,
			"job_type", job.JobType,
			"error", err,
		)
		w.metrics.JobsFailed.WithLabelValues(job.JobType).Inc()
		w.metrics.EmailFailed.Inc()
		if failErr := w.queue.FailEmailJob(ctx, job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job failed", "job_id", job.ID, "error", failErr)
		}
		return
	}

	w.logger.Info("job completed", "job_id", job.ID, "job_type", job.JobType)
	w.metrics.JobsProcessed.WithLabelValues(job.JobType).Inc()
	w.metrics.EmailSent.Inc()
	if err := w.queue.CompleteEmailJob(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job completed", "job_id", job.ID, "error", err)
	}
}

// processJob dispatches a claimed job to the email service
func (w *Worker) processJob(ctx context.Context, job *store.EmailJob) error {
	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	switch job.JobType {
	case jobs.JobTypeOrderConfirmation, jobs.JobTypeOperatorOrderCopy:
		var payload jobs.OrderConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal order confirmation payload: %w", err)
		}
		receipt := receiptFromPayload(payload)
		receipt.OperatorCopy = job.JobType == jobs.JobTypeOperatorOrderCopy
		return w.emailService.SendOrderConfirmation(jobCtx, receipt)

	default:
		return fmt.Errorf("unknown job type: %s", job.JobType)
	}
}

func receiptFromPayload(payload jobs.OrderConfirmationPayload) email.OrderConfirmationEmail {
	items := make([]email.OrderLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, email.OrderLine{
			Title:    item.ProductTitle,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		})
	}

	return email.OrderConfirmationEmail{
		Recipient:     payload.Recipient,
		CustomerName:  payload.CustomerName,
		OrderNumber:   payload.OrderNumber,
		TransactionID: payload.TransactionID,
		OrderDate:     payload.OrderDate,
		Items:         items,
		Subtotal:      payload.Breakdown.Subtotal,
		Discount:      payload.Breakdown.Discount,
		Tax:           payload.Breakdown.Tax,
		Shipping:      payload.Breakdown.Shipping,
		Total:         payload.Breakdown.Total,
		ShippingAddr: email.Address{
			Name:    payload.Shipping.Name,
			Street:  payload.Shipping.Street,
			City:    payload.Shipping.City,
			State:   payload.Shipping.State,
			Pincode: payload.Shipping.Pincode,
			Phone:   payload.Shipping.Phone,
		},
		PaymentMethod: payload.PaymentMethod,
	}
}
