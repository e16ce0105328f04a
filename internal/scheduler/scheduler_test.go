package scheduler

import (
	"testing"

	"pamoja-backend/internal/config"
	"pamoja-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runnerWith(sched config.SchedulerConfig) *jobs.JobRunner {
	return jobs.NewJobRunner(jobs.Repositories{}, nil, &config.Config{Scheduler: sched})
}

func TestNewScheduler(t *testing.T) {
	t.Run("RegistersJobs", func(t *testing.T) {
		s, err := NewScheduler(runnerWith(config.SchedulerConfig{
			ShareBalanceAdvisory: "0 0 8 * * 1",
			PendingReviewDigest:  "0 0 7 * * *",
		}))
		require.NoError(t, err)
		assert.Equal(t, 2, s.Entries())

		s.Start()
		s.Stop()
	})

	t.Run("InvalidSchedule", func(t *testing.T) {
		_, err := NewScheduler(runnerWith(config.SchedulerConfig{
			ShareBalanceAdvisory: "every monday",
			PendingReviewDigest:  "0 0 7 * * *",
		}))
		assert.ErrorContains(t, err, "SendShareAdvisories")
	})
}
