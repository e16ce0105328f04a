package lifecycle

import (
	"testing"

	"pamoja-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = Actor{UserID: 1, IsStaff: true}
	member = Actor{UserID: 7}
	other  = Actor{UserID: 8}
)

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		current string
		action  Action
		actor   Actor
		want    string
		wantErr error
	}{
		{"application submit payment", EntityApplication, "pending", ActionSubmitPayment, member, "payment_submitted", nil},
		{"application approve from pending", EntityApplication, "pending", ActionApprove, admin, "approved", nil},
		{"application approve after payment", EntityApplication, "payment_submitted", ActionApprove, admin, "approved", nil},
		{"application reject after payment", EntityApplication, "payment_submitted", ActionReject, admin, "rejected", nil},
		{"application edit keeps status", EntityApplication, "pending", ActionEdit, member, "pending", nil},
		{"application edit after payment", EntityApplication, "payment_submitted", ActionEdit, member, "", domain.ErrInvalidTransition},
		{"application delete rejected", EntityApplication, "rejected", ActionDelete, member, StatusDeleted, nil},
		{"application approve twice", EntityApplication, "approved", ActionApprove, admin, "", domain.ErrInvalidTransition},
		{"application approve by member", EntityApplication, "pending", ActionApprove, member, "", domain.ErrForbidden},
		{"application delete by other", EntityApplication, "pending", ActionDelete, other, "", domain.ErrForbidden},
		{"payment approve", EntityPayment, "pending", ActionApprove, admin, "approved", nil},
		{"payment reject approved", EntityPayment, "approved", ActionReject, admin, "", domain.ErrInvalidTransition},
		{"payment delete approved", EntityPayment, "approved", ActionDelete, member, "", domain.ErrInvalidTransition},
		{"share purchase reject", EntitySharePurchase, "pending", ActionReject, admin, "rejected", nil},
		{"share purchase approve rejected", EntitySharePurchase, "rejected", ActionApprove, admin, "", domain.ErrInvalidTransition},
		{"claim approve", EntityClaim, "pending", ActionApprove, admin, "approved", nil},
		{"document reject", EntityDocument, "pending", ActionReject, admin, "rejected", nil},
		{"user activate", EntityUser, "unactivated", ActionActivate, admin, "activated", nil},
		{"user reactivate", EntityUser, "deactivated", ActionActivate, admin, "activated", nil},
		{"user activate twice", EntityUser, "activated", ActionActivate, admin, "", domain.ErrInvalidTransition},
		{"user deactivate", EntityUser, "activated", ActionDeactivate, admin, "deactivated", nil},
		{"user deactivate unactivated", EntityUser, "unactivated", ActionDeactivate, admin, "", domain.ErrInvalidTransition},
		{"user activate by member", EntityUser, "unactivated", ActionActivate, member, "", domain.ErrForbidden},
		{"contact mark read", EntityContactMessage, "new", ActionMarkRead, admin, "read", nil},
		{"contact reply from read", EntityContactMessage, "read", ActionReply, admin, "replied", nil},
		{"contact mark read replied", EntityContactMessage, "replied", ActionMarkRead, admin, "", domain.ErrInvalidTransition},
		{"unknown action", EntityPayment, "pending", ActionReply, admin, "", domain.ErrInvalidTransition},
		{"unknown entity", Entity("beneficiary"), "pending", ActionApprove, admin, "", domain.ErrInvalidTransition},
		{"unknown status", EntityPayment, "completed", ActionApprove, admin, "", domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.entity, tt.current, tt.action, tt.actor, member.UserID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_NothingReturnsToPending(t *testing.T) {
	for entity, actions := range rules {
		for action, rule := range actions {
			if action == ActionEdit {
				continue
			}
			assert.NotEqual(t, "pending", rule.To, "%s/%s", entity, action)
		}
	}
}

func TestCheckPayload(t *testing.T) {
	zero := int64(0)
	five := int32(5)

	assert.ErrorIs(t, CheckPayload(EntityApplication, ActionReject, Payload{}), domain.ErrValidation)
	assert.ErrorIs(t, CheckPayload(EntityApplication, ActionReject, Payload{Reason: "   \t"}), domain.ErrValidation)
	assert.NoError(t, CheckPayload(EntityApplication, ActionReject, Payload{Reason: "incomplete ID"}))
	assert.NoError(t, CheckPayload(EntityPayment, ActionReject, Payload{Notes: "proof unreadable"}))
	assert.ErrorIs(t, CheckPayload(EntityUser, ActionDeactivate, Payload{Notes: "notes are not a reason"}), domain.ErrValidation)
	assert.NoError(t, CheckPayload(EntityUser, ActionDeactivate, Payload{Reason: "left the community"}))
	assert.ErrorIs(t, CheckPayload(EntityContactMessage, ActionReply, Payload{Reply: " "}), domain.ErrValidation)
	assert.NoError(t, CheckPayload(EntityPayment, ActionApprove, Payload{}))
	assert.ErrorIs(t, CheckPayload(EntityClaim, ActionApprove, Payload{AmountApproved: &zero}), domain.ErrValidation)
	assert.NoError(t, CheckPayload(EntitySharePurchase, ActionApprove, Payload{SharesAssigned: &five}))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(EntityPayment, "approved"))
	assert.True(t, IsTerminal(EntityPayment, "rejected"))
	assert.False(t, IsTerminal(EntityPayment, "pending"))
	assert.False(t, IsTerminal(EntityApplication, "payment_submitted"))
	assert.False(t, IsTerminal(EntityUser, "deactivated"))
	assert.True(t, IsTerminal(EntityContactMessage, "replied"))
}
