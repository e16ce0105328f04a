package jobs

import (
	"context"
	"errors"
	"testing"

	"pamoja-backend/internal/config"
	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	repository.UserRepository
	mock.Mock
}

func (m *MockUserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepo) ListStaff(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockEmailService struct {
	service.EmailService
	mock.Mock
}

func (m *MockEmailService) SendShareAdvisory(ctx context.Context, email, name string, sharesOwned, minimum int32) error {
	return m.Called(ctx, email, name, sharesOwned, minimum).Error(0)
}

func (m *MockEmailService) SendPendingReviewDigest(ctx context.Context, email, name string, pending map[string]int32) error {
	return m.Called(ctx, email, name, pending).Error(0)
}

// counted maps a status filter to the row count a list stub reports.
type counted map[string]int32

type MockApplicationRepo struct {
	repository.ApplicationRepository
	counts counted
	err    error
}

func (m *MockApplicationRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Application, int32, error) {
	return nil, m.counts[f.Status], m.err
}

type MockPaymentRepo struct {
	repository.PaymentRepository
	counts counted
}

func (m *MockPaymentRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Payment, int32, error) {
	return nil, m.counts[f.Status], nil
}

type MockShareRepo struct {
	repository.ShareRepository
	counts counted
}

func (m *MockShareRepo) ListPurchases(ctx context.Context, f domain.ListFilter) ([]domain.SharePurchase, int32, error) {
	return nil, m.counts[f.Status], nil
}

type MockClaimRepo struct {
	repository.ClaimRepository
	counts counted
}

func (m *MockClaimRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Claim, int32, error) {
	return nil, m.counts[f.Status], nil
}

type MockDocumentRepo struct {
	repository.DocumentRepository
	counts counted
}

func (m *MockDocumentRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Document, int32, error) {
	return nil, m.counts[f.Status], nil
}

type MockContactRepo struct {
	repository.ContactRepository
	counts counted
}

func (m *MockContactRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.ContactMessage, int32, error) {
	return nil, m.counts[f.Status], nil
}

func testConfig() *config.Config {
	return &config.Config{
		Membership: config.MembershipConfig{CriticalLowShares: 20, LowShares: 25},
		Scheduler: config.SchedulerConfig{
			ShareBalanceAdvisory: "0 0 8 * * 1",
			PendingReviewDigest:  "0 0 7 * * *",
		},
	}
}

type fixture struct {
	users    *MockUserRepo
	email    *MockEmailService
	apps     *MockApplicationRepo
	payments *MockPaymentRepo
	shares   *MockShareRepo
	claims   *MockClaimRepo
	docs     *MockDocumentRepo
	contact  *MockContactRepo
}

func newFixture() *fixture {
	return &fixture{
		users:    new(MockUserRepo),
		email:    new(MockEmailService),
		apps:     &MockApplicationRepo{counts: counted{}},
		payments: &MockPaymentRepo{counts: counted{}},
		shares:   &MockShareRepo{counts: counted{}},
		claims:   &MockClaimRepo{counts: counted{}},
		docs:     &MockDocumentRepo{counts: counted{}},
		contact:  &MockContactRepo{counts: counted{}},
	}
}

func (f *fixture) runner() *JobRunner {
	return NewJobRunner(Repositories{
		Users:        f.users,
		Applications: f.apps,
		Payments:     f.payments,
		Shares:       f.shares,
		Claims:       f.claims,
		Documents:    f.docs,
		Contact:      f.contact,
	}, f.email, testConfig())
}

func TestSendShareAdvisories(t *testing.T) {
	t.Run("OnlyCriticalMembers", func(t *testing.T) {
		f := newFixture()
		f.users.On("ListActive", mock.Anything).Return([]domain.User{
			{ID: 1, FirstName: "Ann", LastName: "Low", Email: "ann@example.com", IsActive: true, SharesOwned: 12},
			{ID: 2, Email: "bob@example.com", IsActive: true, SharesOwned: 22},
			{ID: 3, Email: "cy@example.com", IsActive: true, SharesOwned: 40},
			{ID: 4, Email: "staff@example.com", IsActive: true, IsStaff: true, SharesOwned: 0},
		}, nil).Once()
		f.email.On("SendShareAdvisory", mock.Anything, "ann@example.com", "Ann Low", int32(12), int32(20)).Return(nil).Once()

		err := f.runner().SendShareAdvisories()

		assert.NoError(t, err)
		f.email.AssertExpectations(t)
		f.email.AssertNumberOfCalls(t, "SendShareAdvisory", 1)
	})

	t.Run("ListFails", func(t *testing.T) {
		f := newFixture()
		f.users.On("ListActive", mock.Anything).Return([]domain.User(nil), errors.New("db down")).Once()

		err := f.runner().SendShareAdvisories()

		assert.Error(t, err)
		f.email.AssertNotCalled(t, "SendShareAdvisory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EveryEmailFails", func(t *testing.T) {
		f := newFixture()
		f.users.On("ListActive", mock.Anything).Return([]domain.User{
			{ID: 1, Email: "ann@example.com", IsActive: true, SharesOwned: 3},
		}, nil).Once()
		f.email.On("SendShareAdvisory", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("sendgrid: 500")).Once()

		assert.Error(t, f.runner().SendShareAdvisories())
	})
}

func TestSendPendingReviewDigest(t *testing.T) {
	t.Run("SummarisesNonEmptyQueues", func(t *testing.T) {
		f := newFixture()
		f.apps.counts["pending"] = 2
		f.apps.counts["payment_submitted"] = 1
		f.payments.counts["pending"] = 4
		f.contact.counts["new"] = 3
		f.users.On("ListStaff", mock.Anything).Return([]domain.User{
			{ID: 1, Username: "admin", Email: "admin@example.com", IsStaff: true},
			{ID: 2, Username: "noemail", IsStaff: true},
		}, nil).Once()

		want := map[string]int32{
			"applications":                         2,
			"applications awaiting payment review": 1,
			"payments":                             4,
			"contact messages":                     3,
		}
		f.email.On("SendPendingReviewDigest", mock.Anything, "admin@example.com", "admin", want).Return(nil).Once()

		assert.NoError(t, f.runner().SendPendingReviewDigest())
		f.email.AssertExpectations(t)
	})

	t.Run("NothingPending", func(t *testing.T) {
		f := newFixture()

		assert.NoError(t, f.runner().SendPendingReviewDigest())
		f.users.AssertNotCalled(t, "ListStaff", mock.Anything)
	})

	t.Run("CountFails", func(t *testing.T) {
		f := newFixture()
		f.apps.err = errors.New("db down")

		err := f.runner().SendPendingReviewDigest()

		assert.ErrorContains(t, err, "applications")
	})
}

func TestRunWithRecovery(t *testing.T) {
	jr := newFixture().runner()

	err := jr.runWithRecovery("panicky", func(ctx context.Context) error {
		panic("boom")
	})

	assert.ErrorContains(t, err, "boom")
}
