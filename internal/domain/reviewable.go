package domain

import "time"

// Reviewable is any entity an administrator makes lifecycle decisions on.
type Reviewable interface {
	EntityID() int32
	OwnerID() int32
	CurrentStatus() string
}

// ReviewStatus is shared by payments, share purchases, claims and documents.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Review holds the decision metadata recorded when an admin approves or rejects.
type Review struct {
	AdminNotes string     `json:"admin_notes"`
	ReviewedBy *int32     `json:"reviewed_by"`
	ReviewedOn *time.Time `json:"reviewed_on"`
}

// Stamp records who decided and when.
func (r *Review) Stamp(adminID int32, notes string, at time.Time) {
	r.ReviewedBy = &adminID
	r.ReviewedOn = &at
	if notes != "" {
		r.AdminNotes = notes
	}
}

// ListFilter narrows list queries. Zero values mean "no constraint".
type ListFilter struct {
	UserID int32
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int32
	Offset int32
}

// PageSize returns the effective limit, defaulting to 50 and capping at 500.
func (f ListFilter) PageSize() int32 {
	switch {
	case f.Limit <= 0:
		return 50
	case f.Limit > 500:
		return 500
	default:
		return f.Limit
	}
}
