package jobs

import (
	"context"
	"fmt"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
)

const jobPendingReviewDigest = "pending_review_digest"

// pendingCounts returns the number of items waiting in each review queue, omitting empty queues.
func (jr *JobRunner) pendingCounts(ctx context.Context) (map[string]int32, error) {
	pending := domain.ListFilter{Status: string(domain.ReviewStatusPending), Limit: 1}
	counters := []struct {
		name   string
		filter domain.ListFilter
		count  func(ctx context.Context, f domain.ListFilter) (int32, error)
	}{
		{"applications", domain.ListFilter{Status: string(domain.ApplicationStatusPending), Limit: 1}, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Applications.List(ctx, f)
			return n, err
		}},
		{"applications awaiting payment review", domain.ListFilter{Status: string(domain.ApplicationStatusPaymentSubmitted), Limit: 1}, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Applications.List(ctx, f)
			return n, err
		}},
		{"payments", pending, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Payments.List(ctx, f)
			return n, err
		}},
		{"share purchases", pending, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Shares.ListPurchases(ctx, f)
			return n, err
		}},
		{"claims", pending, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Claims.List(ctx, f)
			return n, err
		}},
		{"documents", pending, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Documents.List(ctx, f)
			return n, err
		}},
		{"contact messages", domain.ListFilter{Status: string(domain.ContactStatusNew), Limit: 1}, func(ctx context.Context, f domain.ListFilter) (int32, error) {
			_, n, err := jr.repos.Contact.List(ctx, f)
			return n, err
		}},
	}

	counts := make(map[string]int32)
	for _, c := range counters {
		n, err := c.count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count pending %s: %w", c.name, err)
		}
		if n > 0 {
			counts[c.name] = n
		}
	}
	return counts, nil
}

// SendPendingReviewDigest emails staff a summary of the review queues. Nothing is sent when every queue is empty.
func (jr *JobRunner) SendPendingReviewDigest() error {
	return jr.runWithRecovery(jobPendingReviewDigest, func(ctx context.Context) error {
		counts, err := jr.pendingCounts(ctx)
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			logger.Info("No pending reviews, digest skipped")
			return nil
		}

		staff, err := jr.repos.Users.ListStaff(ctx)
		if err != nil {
			return fmt.Errorf("failed to list staff: %w", err)
		}

		sent := 0
		for i := range staff {
			s := &staff[i]
			if s.Email == "" {
				continue
			}
			if err := jr.email.SendPendingReviewDigest(ctx, s.Email, s.FullName(), counts); err != nil {
				logger.Error("Failed to send pending review digest", "user_id", s.ID, "email", s.Email, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Pending review digest sent", "recipients", sent, "queues", len(counts))
		return nil
	})
}
