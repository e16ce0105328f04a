package domain

import (
	"sort"
	"strings"
	"time"
)

type MembershipType string

const (
	MembershipTypeSingle MembershipType = "single"
	MembershipTypeDouble MembershipType = "double"
)

func (m MembershipType) Valid() bool {
	return m == MembershipTypeSingle || m == MembershipTypeDouble
}

type ApplicationStatus string

const (
	ApplicationStatusPending          ApplicationStatus = "pending"
	ApplicationStatusPaymentSubmitted ApplicationStatus = "payment_submitted"
	ApplicationStatusApproved         ApplicationStatus = "approved"
	ApplicationStatusRejected         ApplicationStatus = "rejected"
)

type Application struct {
	ID             int32             `json:"id"`
	UserID         int32             `json:"user_id"`
	MembershipType MembershipType    `json:"membership_type"`
	Status         ApplicationStatus `json:"status"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	IDNumber    string     `json:"id_number"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	ZipCode     string     `json:"zip_code"`

	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`

	SpouseName     string `json:"spouse_name"`
	SpouseIDNumber string `json:"spouse_id_number"`
	SpousePhone    string `json:"spouse_phone"`
	SpouseEmail    string `json:"spouse_email"`
	ChildrenInfo   string `json:"children_info"`

	IDDocument string `json:"id_document"`

	Upgrade         bool   `json:"upgrade"`
	SupersededBy    *int32 `json:"superseded_by"`
	RejectionReason string `json:"rejection_reason"`
	Review

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsLive reports whether the application counts toward the one-live-application limit.
func (a *Application) IsLive() bool {
	if a.SupersededBy != nil {
		return false
	}
	switch a.Status {
	case ApplicationStatusPending, ApplicationStatusPaymentSubmitted, ApplicationStatusApproved:
		return true
	}
	return false
}

// Validate checks the fields a member must provide.
func (a *Application) Validate() error {
	if !a.MembershipType.Valid() {
		return Validationf("membership type must be single or double")
	}
	missing := []string{}
	for name, v := range map[string]string{
		"first_name": a.FirstName,
		"last_name":  a.LastName,
		"email":      a.Email,
		"phone":      a.Phone,
		"id_number":  a.IDNumber,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if a.MembershipType == MembershipTypeDouble {
		if strings.TrimSpace(a.SpouseName) == "" {
			missing = append(missing, "spouse_name")
		}
		if strings.TrimSpace(a.SpouseIDNumber) == "" {
			missing = append(missing, "spouse_id_number")
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (a *Application) EntityID() int32       { return a.ID }
func (a *Application) OwnerID() int32        { return a.UserID }
func (a *Application) CurrentStatus() string { return string(a.Status) }
