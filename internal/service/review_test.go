package service_test

import (
	"context"
	"errors"
	"testing"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/service"
	"pamoja-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClaimService_Decide(t *testing.T) {
	ctx := context.Background()

	load := func(f *fixture) *domain.Claim {
		c := &domain.Claim{
			ID: 9, UserID: 7, ClaimType: domain.ClaimTypeMedical, Title: "Hospital bill",
			AmountRequested: 150000, Status: domain.ReviewStatusPending,
		}
		f.claims.On("GetByID", mock.Anything, int32(9)).Return(c, nil)
		f.users.On("GetByID", mock.Anything, int32(7)).Return(&domain.User{ID: 7, Email: "m@example.com"}, nil).Maybe()
		return c
	}

	t.Run("Approve Defaults To Requested", func(t *testing.T) {
		f := newFixture()
		svc := service.NewClaimService(f.claims, f.files, f.notifier)
		c := load(f)
		f.claims.On("UpdateStatus", mock.Anything, c, domain.ReviewStatusPending).Return(nil)

		res, err := svc.Decide(ctx, admin, 9, lifecycle.ActionApprove, lifecycle.Payload{})
		require.NoError(t, err)
		require.NotNil(t, res.AmountApproved)
		assert.Equal(t, int64(150000), *res.AmountApproved)
		assert.Equal(t, domain.ReviewStatusApproved, res.Status)
	})

	t.Run("Approve Partial", func(t *testing.T) {
		f := newFixture()
		svc := service.NewClaimService(f.claims, f.files, f.notifier)
		c := load(f)
		f.claims.On("UpdateStatus", mock.Anything, c, domain.ReviewStatusPending).Return(nil)

		amount := int64(100000)
		res, err := svc.Decide(ctx, admin, 9, lifecycle.ActionApprove, lifecycle.Payload{AmountApproved: &amount})
		require.NoError(t, err)
		assert.Equal(t, amount, *res.AmountApproved)
	})

	t.Run("Approve Above Requested", func(t *testing.T) {
		f := newFixture()
		svc := service.NewClaimService(f.claims, f.files, f.notifier)
		c := load(f)

		amount := int64(200000)
		_, err := svc.Decide(ctx, admin, 9, lifecycle.ActionApprove, lifecycle.Payload{AmountApproved: &amount})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, domain.ReviewStatusPending, c.Status)
		f.claims.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reject Stores Reason", func(t *testing.T) {
		f := newFixture()
		svc := service.NewClaimService(f.claims, f.files, f.notifier)
		c := load(f)
		f.claims.On("UpdateStatus", mock.Anything, c, domain.ReviewStatusPending).Return(nil)

		res, err := svc.Decide(ctx, admin, 9, lifecycle.ActionReject, lifecycle.Payload{Notes: "no invoice attached"})
		require.NoError(t, err)
		assert.Equal(t, "no invoice attached", res.AdminNotes)
		assert.Nil(t, res.AmountApproved)
	})
}

func TestClaimService_SubmitRejectsUnsupportedFile(t *testing.T) {
	f := newFixture()
	svc := service.NewClaimService(f.claims, f.files, f.notifier)
	f.files.On("Save", mock.Anything, "claim_documents", "run.exe", mock.Anything).
		Return("", errors.Join(storage.ErrUnsupportedType, errors.New(".exe")))

	_, err := svc.Submit(context.Background(), member, &domain.Claim{
		ClaimType: domain.ClaimTypeEducation, Title: "School fees", AmountRequested: 5000,
	}, &service.Upload{Filename: "run.exe"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactService(t *testing.T) {
	ctx := context.Background()

	t.Run("Submit Validates", func(t *testing.T) {
		f := newFixture()
		svc := service.NewContactService(f.contacts, f.email, f.notifier)

		_, err := svc.Submit(ctx, nil, &domain.ContactMessage{Name: "Visitor", Email: "not-an-address", Subject: "Hi", Message: "Hello"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.Submit(ctx, nil, &domain.ContactMessage{Name: "Visitor"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email, subject, message")
	})

	t.Run("Reply Emails Sender", func(t *testing.T) {
		f := newFixture()
		svc := service.NewContactService(f.contacts, f.email, f.notifier)
		sender := int32(7)
		msg := &domain.ContactMessage{ID: 4, UserID: &sender, Name: "Wanjiru", Email: "wanjiru@example.com", Subject: "Meeting", Status: domain.ContactStatusRead}
		f.contacts.On("GetByID", mock.Anything, int32(4)).Return(msg, nil)
		f.contacts.On("UpdateStatus", mock.Anything, msg, []domain.ContactStatus{domain.ContactStatusRead}).Return(nil)
		f.email.On("SendContactReply", mock.Anything, "wanjiru@example.com", "Wanjiru", "Meeting", "It starts at 10am.").Return(nil)

		res, err := svc.Decide(ctx, admin, 4, lifecycle.ActionReply, lifecycle.Payload{Reply: " It starts at 10am. "})
		require.NoError(t, err)
		assert.Equal(t, domain.ContactStatusReplied, res.Status)
		require.NotNil(t, res.RepliedBy)
		assert.Equal(t, int32(1), *res.RepliedBy)
		f.email.AssertExpectations(t)
		f.notes.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("Replied Is Final", func(t *testing.T) {
		f := newFixture()
		svc := service.NewContactService(f.contacts, f.email, f.notifier)
		f.contacts.On("GetByID", mock.Anything, int32(4)).Return(&domain.ContactMessage{ID: 4, Status: domain.ContactStatusReplied}, nil)

		_, err := svc.Decide(ctx, admin, 4, lifecycle.ActionMarkRead, lifecycle.Payload{})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestDocumentService_OpenOwnOnly(t *testing.T) {
	f := newFixture()
	svc := service.NewDocumentService(f.docs, f.files, f.notifier)
	f.docs.On("GetByID", mock.Anything, int32(2)).Return(&domain.Document{ID: 2, UserID: 7, File: "documents/a.pdf"}, nil)

	_, _, err := svc.Open(context.Background(), lifecycle.Actor{UserID: 8}, 2)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.files.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
}
