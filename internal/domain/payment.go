package domain

import "time"

type PaymentType string

const (
	PaymentTypeActivationFee    PaymentType = "activation_fee"
	PaymentTypeMembershipSingle PaymentType = "membership_single"
	PaymentTypeMembershipDouble PaymentType = "membership_double"
	PaymentTypeShares           PaymentType = "shares"
	PaymentTypeOther            PaymentType = "other"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeActivationFee, PaymentTypeMembershipSingle, PaymentTypeMembershipDouble, PaymentTypeShares, PaymentTypeOther:
		return true
	}
	return false
}

// IsMembership reports whether paying this type advances a membership application.
func (t PaymentType) IsMembership() bool {
	return t == PaymentTypeMembershipSingle || t == PaymentTypeMembershipDouble
}

type PaymentMethod string

const (
	PaymentMethodPaypal     PaymentMethod = "paypal"
	PaymentMethodVenmo      PaymentMethod = "venmo"
	PaymentMethodZelle      PaymentMethod = "zelle"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodMpesa      PaymentMethod = "mpesa"
	PaymentMethodBank       PaymentMethod = "bank"
	PaymentMethodOther      PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodPaypal, PaymentMethodVenmo, PaymentMethodZelle, PaymentMethodDebitCard,
		PaymentMethodCreditCard, PaymentMethodMpesa, PaymentMethodBank, PaymentMethodOther:
		return true
	}
	return false
}

type Payment struct {
	ID            int32         `json:"id"`
	UserID        int32         `json:"user_id"`
	ApplicationID *int32        `json:"application_id"`
	PaymentType   PaymentType   `json:"payment_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	AmountCents   int64         `json:"amount_cents"`
	Status        ReviewStatus  `json:"status"`
	TransactionID string        `json:"transaction_id"`
	PaymentProof  string        `json:"payment_proof"`
	Notes         string        `json:"notes"`
	Review
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (p *Payment) EntityID() int32       { return p.ID }
func (p *Payment) OwnerID() int32        { return p.UserID }
func (p *Payment) CurrentStatus() string { return string(p.Status) }

// IsPendingActivation reports whether p is an activation fee awaiting review.
func (p *Payment) IsPendingActivation() bool {
	return p.PaymentType == PaymentTypeActivationFee && p.Status == ReviewStatusPending
}

// NormalizeReviewStatus maps legacy payment statuses onto the review states.
func NormalizeReviewStatus(s string) ReviewStatus {
	switch s {
	case "completed":
		return ReviewStatusApproved
	case "failed":
		return ReviewStatusRejected
	}
	return ReviewStatus(s)
}

// FinancialReport summarises approved money for a period.
type FinancialReport struct {
	From               *time.Time       `json:"from"`
	To                 *time.Time       `json:"to"`
	TotalApprovedCents int64            `json:"total_approved_cents"`
	PendingCount       int32            `json:"pending_count"`
	ApprovedCount      int32            `json:"approved_count"`
	RejectedCount      int32            `json:"rejected_count"`
	ByType             map[string]int64 `json:"by_type"`
	ByMethod           map[string]int64 `json:"by_method"`
	ClaimsPaidCents    int64            `json:"claims_paid_cents"`
}
