package jobs

import (
	"context"
	"fmt"
	"time"

	"pamoja-backend/internal/config"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/metrics"
	"pamoja-backend/internal/policy"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/service"
)

// Repositories holds the data access needed by jobs
type Repositories struct {
	Users        repository.UserRepository
	Applications repository.ApplicationRepository
	Payments     repository.PaymentRepository
	Shares       repository.ShareRepository
	Claims       repository.ClaimRepository
	Documents    repository.DocumentRepository
	Contact      repository.ContactRepository
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos      Repositories
	email      service.EmailService
	thresholds policy.Thresholds
	config     *config.Config
	timeout    time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos Repositories, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos: repos,
		email: email,
		thresholds: policy.Thresholds{
			CriticalLow: cfg.Membership.CriticalLowShares,
			Low:         cfg.Membership.LowShares,
		},
		config:  cfg,
		timeout: 10 * time.Minute,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the outcome
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		metrics.RecordJobRun(jobName, err == nil, time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	logger.Info("Starting job", "job", jobName)
	if err = jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() error {
	var firstErr error
	for _, run := range []func() error{jr.SendShareAdvisories, jr.SendPendingReviewDigest} {
		if err := run(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
