// Package lifecycle holds the status transition rules for every reviewable entity.
// Both the API server and the admin client consult the same table.
package lifecycle

import (
	"strings"

	"pamoja-backend/internal/domain"
)

type Entity string

const (
	EntityApplication    Entity = "application"
	EntityPayment        Entity = "payment"
	EntitySharePurchase  Entity = "share_purchase"
	EntityClaim          Entity = "claim"
	EntityDocument       Entity = "document"
	EntityUser           Entity = "user"
	EntityContactMessage Entity = "contact_message"
)

type Action string

const (
	ActionSubmitPayment Action = "submit_payment"
	ActionEdit          Action = "edit"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionDelete        Action = "delete"
	ActionActivate      Action = "activate"
	ActionDeactivate    Action = "deactivate"
	ActionMarkRead      Action = "mark_read"
	ActionReply         Action = "reply"
)

// StatusDeleted is returned as the next status of a delete.
const StatusDeleted = "deleted"

// Role is who may perform an action.
type Role int

const (
	RoleOwner Role = iota
	RoleAdmin
)

// Actor identifies the caller of a transition.
type Actor struct {
	UserID  int32
	IsStaff bool
}

// Rule is one row of the transition table. An empty To keeps the current status.
type Rule struct {
	From []string
	To   string
	Role Role
}

func (r Rule) allows(current string) bool {
	for _, f := range r.From {
		if f == current {
			return true
		}
	}
	return false
}

var (
	appPending   = string(domain.ApplicationStatusPending)
	appSubmitted = string(domain.ApplicationStatusPaymentSubmitted)
	appApproved  = string(domain.ApplicationStatusApproved)
	appRejected  = string(domain.ApplicationStatusRejected)

	reviewPending  = string(domain.ReviewStatusPending)
	reviewApproved = string(domain.ReviewStatusApproved)
	reviewRejected = string(domain.ReviewStatusRejected)
)

func reviewRules() map[Action]Rule {
	return map[Action]Rule{
		ActionApprove: {From: []string{reviewPending}, To: reviewApproved, Role: RoleAdmin},
		ActionReject:  {From: []string{reviewPending}, To: reviewRejected, Role: RoleAdmin},
		ActionDelete:  {From: []string{reviewPending}, To: StatusDeleted, Role: RoleOwner},
	}
}

var rules = map[Entity]map[Action]Rule{
	EntityApplication: {
		ActionSubmitPayment: {From: []string{appPending}, To: appSubmitted, Role: RoleOwner},
		ActionEdit:          {From: []string{appPending}, Role: RoleOwner},
		ActionApprove:       {From: []string{appPending, appSubmitted}, To: appApproved, Role: RoleAdmin},
		ActionReject:        {From: []string{appPending, appSubmitted}, To: appRejected, Role: RoleAdmin},
		ActionDelete:        {From: []string{appPending, appRejected}, To: StatusDeleted, Role: RoleOwner},
	},
	EntityPayment:       reviewRules(),
	EntitySharePurchase: reviewRules(),
	EntityClaim:         reviewRules(),
	EntityDocument:      reviewRules(),
	EntityUser: {
		ActionActivate: {
			From: []string{string(domain.ActivationStatusUnactivated), string(domain.ActivationStatusDeactivated)},
			To:   string(domain.ActivationStatusActivated),
			Role: RoleAdmin,
		},
		ActionDeactivate: {
			From: []string{string(domain.ActivationStatusActivated)},
			To:   string(domain.ActivationStatusDeactivated),
			Role: RoleAdmin,
		},
	},
	EntityContactMessage: {
		ActionMarkRead: {From: []string{string(domain.ContactStatusNew)}, To: string(domain.ContactStatusRead), Role: RoleAdmin},
		ActionReply: {
			From: []string{string(domain.ContactStatusNew), string(domain.ContactStatusRead)},
			To:   string(domain.ContactStatusReplied),
			Role: RoleAdmin,
		},
	},
}

var statuses = map[Entity][]string{
	EntityApplication:    {appPending, appSubmitted, appApproved, appRejected},
	EntityPayment:        {reviewPending, reviewApproved, reviewRejected},
	EntitySharePurchase:  {reviewPending, reviewApproved, reviewRejected},
	EntityClaim:          {reviewPending, reviewApproved, reviewRejected},
	EntityDocument:       {reviewPending, reviewApproved, reviewRejected},
	EntityUser:           {string(domain.ActivationStatusUnactivated), string(domain.ActivationStatusActivated), string(domain.ActivationStatusDeactivated)},
	EntityContactMessage: {string(domain.ContactStatusNew), string(domain.ContactStatusRead), string(domain.ContactStatusReplied)},
}

// Lookup returns the rule for an (entity, action) pair.
func Lookup(entity Entity, action Action) (Rule, bool) {
	actions, ok := rules[entity]
	if !ok {
		return Rule{}, false
	}
	r, ok := actions[action]
	return r, ok
}

// KnownStatus reports whether status belongs to the entity's closed set.
func KnownStatus(entity Entity, status string) bool {
	for _, s := range statuses[entity] {
		if s == status {
			return true
		}
	}
	return false
}

// Transition validates action on an entity currently in status current and returns the next status.
// ownerID is the user who owns the entity; it is only consulted for owner actions.
func Transition(entity Entity, current string, action Action, actor Actor, ownerID int32) (string, error) {
	rule, ok := Lookup(entity, action)
	if !ok {
		return "", domain.NewError(domain.ErrInvalidTransition, "%s cannot be applied to a %s", action, entity)
	}
	if !KnownStatus(entity, current) {
		return "", domain.NewError(domain.ErrInvalidTransition, "unknown %s status %q", entity, current)
	}

	switch rule.Role {
	case RoleAdmin:
		if !actor.IsStaff {
			return "", domain.NewError(domain.ErrForbidden, "only administrators can %s a %s", action, entity)
		}
	case RoleOwner:
		if actor.UserID == 0 || actor.UserID != ownerID {
			return "", domain.NewError(domain.ErrForbidden, "only the owner can %s this %s", action, entity)
		}
	}

	if !rule.allows(current) {
		return "", domain.NewError(domain.ErrInvalidTransition, "cannot %s a %s that is %s", action, entity, current)
	}

	if rule.To == "" {
		return current, nil
	}
	return rule.To, nil
}

// Payload carries the optional inputs of an admin decision.
type Payload struct {
	Reason         string `json:"reason,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Reply          string `json:"reply,omitempty"`
	AmountApproved *int64 `json:"amount_approved,omitempty"`
	SharesAssigned *int32 `json:"shares_assigned,omitempty"`
}

// RejectionReason returns the reason, falling back to notes for entities whose rejection form only has notes.
func (p Payload) RejectionReason() string {
	if strings.TrimSpace(p.Reason) != "" {
		return strings.TrimSpace(p.Reason)
	}
	return strings.TrimSpace(p.Notes)
}

// CheckPayload rejects decisions whose required text is missing or blank.
func CheckPayload(entity Entity, action Action, p Payload) error {
	switch action {
	case ActionReject:
		if p.RejectionReason() == "" {
			return domain.Validationf("a reason is required to reject a %s", entity)
		}
	case ActionDeactivate:
		if strings.TrimSpace(p.Reason) == "" {
			return domain.Validationf("a reason is required to deactivate a user")
		}
	case ActionReply:
		if strings.TrimSpace(p.Reply) == "" {
			return domain.Validationf("reply text is required")
		}
	case ActionApprove:
		if p.AmountApproved != nil && *p.AmountApproved <= 0 {
			return domain.Validationf("approved amount must be greater than zero")
		}
		if p.SharesAssigned != nil && *p.SharesAssigned <= 0 {
			return domain.Validationf("shares assigned must be greater than zero")
		}
	}
	return nil
}

// IsTerminal reports whether no admin action can leave status.
func IsTerminal(entity Entity, status string) bool {
	for _, rule := range rules[entity] {
		if rule.Role == RoleAdmin && rule.allows(status) {
			return false
		}
	}
	return true
}
