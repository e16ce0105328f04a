package domain

import (
	"strings"
	"time"
)

// ActivationStatus is derived from the user's flags and activation history.
type ActivationStatus string

const (
	ActivationStatusUnactivated ActivationStatus = "unactivated"
	ActivationStatusActivated   ActivationStatus = "activated"
	ActivationStatusDeactivated ActivationStatus = "deactivated"
)

type User struct {
	ID                 int32      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Phone              string     `json:"phone"`
	PasswordHash       string     `json:"-"`
	IsActivated        bool       `json:"is_activated"`
	IsStaff            bool       `json:"is_staff"`
	IsActive           bool       `json:"is_active"`
	SharesOwned        int32      `json:"shares_owned"`
	AvailableShares    int32      `json:"available_shares"`
	ActivationDate     *time.Time `json:"activation_date"`
	DeactivationReason string     `json:"deactivation_reason"`
	CreatedOn          time.Time  `json:"created_on"`
	UpdatedOn          time.Time  `json:"updated_on"`
}

// ActivationStatus reports whether the user was never activated, is activated, or was deactivated.
func (u *User) ActivationStatus() ActivationStatus {
	if u.IsActivated {
		return ActivationStatusActivated
	}
	if u.ActivationDate != nil || u.DeactivationReason != "" {
		return ActivationStatusDeactivated
	}
	return ActivationStatusUnactivated
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) EntityID() int32       { return u.ID }
func (u *User) OwnerID() int32        { return u.ID }
func (u *User) CurrentStatus() string { return string(u.ActivationStatus()) }

// UserStats is the admin overview of the membership.
type UserStats struct {
	TotalUsers       int32 `json:"total_users"`
	ActivatedUsers   int32 `json:"activated_users"`
	UnactivatedUsers int32 `json:"unactivated_users"`
	InactiveUsers    int32 `json:"inactive_users"`
	StaffUsers       int32 `json:"staff_users"`
	TotalShares      int64 `json:"total_shares"`
	CriticalLowUsers int32 `json:"critical_low_users"`
	LowUsers         int32 `json:"low_users"`
}
