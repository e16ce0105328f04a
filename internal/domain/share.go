package domain

import "time"

type SharePurchase struct {
	ID              int32         `json:"id"`
	UserID          int32         `json:"user_id"`
	Quantity        int32         `json:"quantity"`
	AmountPerShare  int64         `json:"amount_per_share_cents"`
	TotalAmount     int64         `json:"total_amount_cents"`
	Status          ReviewStatus  `json:"status"`
	SharesAssigned  *int32        `json:"shares_assigned"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	TransactionID   string        `json:"transaction_id"`
	PaymentProof    string        `json:"payment_proof"`
	RejectionReason string        `json:"rejection_reason"`
	Review
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (s *SharePurchase) EntityID() int32       { return s.ID }
func (s *SharePurchase) OwnerID() int32        { return s.UserID }
func (s *SharePurchase) CurrentStatus() string { return string(s.Status) }

type ShareDeduction struct {
	ID             int32     `json:"id"`
	UserID         int32     `json:"user_id"`
	SharesDeducted int32     `json:"shares_deducted"`
	Reason         string    `json:"reason"`
	DeductedBy     int32     `json:"deducted_by"`
	CreatedOn      time.Time `json:"created_on"`
}

// DeductionResult is returned by the bulk deduction operation.
type DeductionResult struct {
	Amount           int32  `json:"amount"`
	Reason           string `json:"reason"`
	UsersAffected    int    `json:"users_affected"`
	UsersDeactivated int    `json:"users_deactivated"`
	UsersSkipped     int    `json:"users_skipped"`
	Users            []User `json:"users"`
}
