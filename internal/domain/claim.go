package domain

import "time"

type ClaimType string

const (
	ClaimTypeDeath     ClaimType = "death"
	ClaimTypeMedical   ClaimType = "medical"
	ClaimTypeEducation ClaimType = "education"
	ClaimTypeEmergency ClaimType = "emergency"
)

func (t ClaimType) Valid() bool {
	switch t {
	case ClaimTypeDeath, ClaimTypeMedical, ClaimTypeEducation, ClaimTypeEmergency:
		return true
	}
	return false
}

type Claim struct {
	ID                 int32        `json:"id"`
	UserID             int32        `json:"user_id"`
	ClaimType          ClaimType    `json:"claim_type"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	AmountRequested    int64        `json:"amount_requested_cents"`
	AmountApproved     *int64       `json:"amount_approved_cents"`
	Status             ReviewStatus `json:"status"`
	SupportingDocument string       `json:"supporting_document"`
	Review
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (c *Claim) EntityID() int32       { return c.ID }
func (c *Claim) OwnerID() int32        { return c.UserID }
func (c *Claim) CurrentStatus() string { return string(c.Status) }
