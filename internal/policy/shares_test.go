package policy

import (
	"testing"

	"pamoja-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		user   domain.User
		expect Band
	}{
		{"inactive wins", domain.User{IsActive: false, SharesOwned: 100}, BandInactive},
		{"zero", domain.User{IsActive: true, SharesOwned: 0}, BandCriticalLow},
		{"nineteen", domain.User{IsActive: true, SharesOwned: 19}, BandCriticalLow},
		{"twenty", domain.User{IsActive: true, SharesOwned: 20}, BandLow},
		{"twenty four", domain.User{IsActive: true, SharesOwned: 24}, BandLow},
		{"twenty five", domain.User{IsActive: true, SharesOwned: 25}, BandGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Classify(&tt.user))
		})
	}
}

func TestThresholds_CustomBands(t *testing.T) {
	th := Thresholds{CriticalLow: 5, Low: 10}
	assert.Equal(t, BandCriticalLow, th.Classify(&domain.User{IsActive: true, SharesOwned: 4}))
	assert.Equal(t, BandLow, th.Classify(&domain.User{IsActive: true, SharesOwned: 9}))
	assert.Equal(t, BandGood, th.Classify(&domain.User{IsActive: true, SharesOwned: 10}))
}

func TestPlanDeduction(t *testing.T) {
	users := []domain.User{
		{ID: 1, IsActive: true, IsActivated: true, SharesOwned: 30},
		{ID: 2, IsActive: true, IsActivated: true, SharesOwned: 22},
		{ID: 3, IsActive: true, IsActivated: true, SharesOwned: 4},
		{ID: 4, IsActive: true, SharesOwned: 10, DeactivationReason: "low shares"},
	}

	t.Run("Success", func(t *testing.T) {
		plan, err := DefaultThresholds.PlanDeduction(users, 5, "  funeral contribution ")
		require.NoError(t, err)
		assert.Equal(t, "funeral contribution", plan.Reason)
		assert.Equal(t, 3, plan.UsersAffected())
		assert.Equal(t, []int32{3}, plan.Skipped)

		assert.Equal(t, DeductionEntry{UserID: 1, Before: 30, After: 25}, plan.Entries[0])
		assert.Equal(t, DeductionEntry{UserID: 2, Before: 22, After: 17, Deactivate: true}, plan.Entries[1])
		// already deactivated members are deducted but not counted as deactivated again
		assert.Equal(t, DeductionEntry{UserID: 4, Before: 10, After: 5}, plan.Entries[2])

		assert.Equal(t, 1, plan.UsersDeactivated())
		assert.Equal(t, []int32{2}, plan.DeactivatedIDs())
	})

	t.Run("ExactBalance", func(t *testing.T) {
		plan, err := DefaultThresholds.PlanDeduction([]domain.User{{ID: 5, IsActive: true, IsActivated: true, SharesOwned: 5}}, 5, "levy")
		require.NoError(t, err)
		assert.Equal(t, int32(0), plan.Entries[0].After)
		assert.True(t, plan.Entries[0].Deactivate)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		_, err := DefaultThresholds.PlanDeduction(users, 0, "levy")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("BlankReason", func(t *testing.T) {
		_, err := DefaultThresholds.PlanDeduction(users, 1, "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
