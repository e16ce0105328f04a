// Package policy classifies share balances and plans bulk share deductions.
package policy

import (
	"strings"

	"pamoja-backend/internal/domain"
)

type Band string

const (
	BandInactive    Band = "inactive"
	BandCriticalLow Band = "critical_low"
	BandLow         Band = "low"
	BandGood        Band = "good"
)

// Thresholds bound the share bands. Balances below CriticalLow are critical,
// balances below Low are low.
type Thresholds struct {
	CriticalLow int32
	Low         int32
}

var DefaultThresholds = Thresholds{CriticalLow: 20, Low: 25}

// Classify returns the advisory band of a user's share balance.
func (t Thresholds) Classify(u *domain.User) Band {
	switch {
	case !u.IsActive:
		return BandInactive
	case u.SharesOwned < t.CriticalLow:
		return BandCriticalLow
	case u.SharesOwned < t.Low:
		return BandLow
	default:
		return BandGood
	}
}

// Classify uses DefaultThresholds.
func Classify(u *domain.User) Band {
	return DefaultThresholds.Classify(u)
}

// DeductionEntry is one member's share of a bulk deduction.
type DeductionEntry struct {
	UserID     int32
	Before     int32
	After      int32
	Deactivate bool
}

type DeductionPlan struct {
	Amount  int32
	Reason  string
	Entries []DeductionEntry
	Skipped []int32
}

func (p *DeductionPlan) UsersAffected() int {
	return len(p.Entries)
}

func (p *DeductionPlan) UsersDeactivated() int {
	n := 0
	for _, e := range p.Entries {
		if e.Deactivate {
			n++
		}
	}
	return n
}

// DeactivatedIDs returns the users the plan deactivates.
func (p *DeductionPlan) DeactivatedIDs() []int32 {
	ids := []int32{}
	for _, e := range p.Entries {
		if e.Deactivate {
			ids = append(ids, e.UserID)
		}
	}
	return ids
}

// DeactivationReason is stored on users deactivated by plan p.
func (p *DeductionPlan) DeactivationReason() string {
	return "share balance fell below minimum after deduction: " + p.Reason
}

// PlanDeduction computes a bulk deduction of amount shares from every user holding at least amount.
// Users left below the critical threshold are deactivated; this is the only place a share change deactivates anyone.
func (t Thresholds) PlanDeduction(users []domain.User, amount int32, reason string) (*DeductionPlan, error) {
	if amount <= 0 {
		return nil, domain.Validationf("deduction amount must be greater than zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.Validationf("a reason is required for share deductions")
	}

	plan := &DeductionPlan{Amount: amount, Reason: reason}
	for _, u := range users {
		if u.SharesOwned < amount {
			plan.Skipped = append(plan.Skipped, u.ID)
			continue
		}
		after := u.SharesOwned - amount
		plan.Entries = append(plan.Entries, DeductionEntry{
			UserID:     u.ID,
			Before:     u.SharesOwned,
			After:      after,
			Deactivate: u.IsActivated && after < t.CriticalLow,
		})
	}
	return plan, nil
}
