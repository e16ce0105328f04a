package jobs

import (
	"context"
	"fmt"

	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/policy"
)

const jobShareAdvisory = "share_balance_advisory"

// SendShareAdvisories emails every active member whose balance is in the critical band
func (jr *JobRunner) SendShareAdvisories() error {
	return jr.runWithRecovery(jobShareAdvisory, func(ctx context.Context) error {
		users, err := jr.repos.Users.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to list active users: %w", err)
		}

		sent, failed := 0, 0
		for i := range users {
			u := &users[i]
			if u.IsStaff || jr.thresholds.Classify(u) != policy.BandCriticalLow {
				continue
			}
			if err := jr.email.SendShareAdvisory(ctx, u.Email, u.FullName(), u.SharesOwned, jr.thresholds.CriticalLow); err != nil {
				logger.Error("Failed to send share advisory",
					"user_id", u.ID,
					"email", u.Email,
					"error", err)
				failed++
				continue
			}
			sent++
			logger.Debug("Sent share advisory", "user_id", u.ID, "shares_owned", u.SharesOwned)
		}

		logger.Info("Share advisories processed", "checked", len(users), "sent", sent, "failed", failed)
		if failed > 0 && sent == 0 {
			return fmt.Errorf("all %d share advisories failed", failed)
		}
		return nil
	})
}
