// Package gate decides whether a member may use activation-only features.
package gate

import "pamoja-backend/internal/domain"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonPendingPayment  Reason = "pending_payment"
	ReasonPaymentRequired Reason = "payment_required"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

var Allowed = Decision{Allowed: true}

func Blocked(r Reason) Decision {
	return Decision{Reason: r}
}

// String is the access label shown on the dashboard.
func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return string(d.Reason)
}

// Err converts a blocked decision into an ErrActivationRequired error.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonPendingPayment:
		return domain.NewError(domain.ErrActivationRequired, "your activation payment is awaiting review")
	default:
		return domain.NewError(domain.ErrActivationRequired, "an activation fee payment is required")
	}
}

// CanAccess evaluates the gate for u given the user's own payments.
func CanAccess(u *domain.User, payments []domain.Payment) Decision {
	if u.IsStaff || u.IsActivated {
		return Allowed
	}
	for i := range payments {
		if payments[i].IsPendingActivation() {
			return Blocked(ReasonPendingPayment)
		}
	}
	return Blocked(ReasonPaymentRequired)
}

// AfterSubmission updates d once payment p has been accepted by the server.
// Only an administrator's activation can move a user to Allowed.
func AfterSubmission(d Decision, p *domain.Payment) Decision {
	if !d.Allowed && d.Reason == ReasonPaymentRequired && p != nil && p.IsPendingActivation() {
		return Blocked(ReasonPendingPayment)
	}
	return d
}
