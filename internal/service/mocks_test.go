package service_test

import (
	"context"
	"io"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/policy"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListStaff(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Stats(ctx context.Context, thresholds policy.Thresholds) (*domain.UserStats, error) {
	args := m.Called(ctx, thresholds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}
func (m *MockUserRepo) Activate(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Deactivate(ctx context.Context, id int32, reason string) (*domain.User, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateShares(ctx context.Context, id int32, sharesOwned, availableShares int32) (*domain.User, error) {
	args := m.Called(ctx, id, sharesOwned, availableShares)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) CreateUpgrade(ctx context.Context, app *domain.Application, supersedes int32) error {
	args := m.Called(ctx, app, supersedes)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetLiveByUser(ctx context.Context, userID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) Update(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error {
	args := m.Called(ctx, app, from)
	return args.Error(0)
}
func (m *MockApplicationRepo) Delete(ctx context.Context, id int32, allowed []domain.ApplicationStatus) error {
	args := m.Called(ctx, id, allowed)
	return args.Error(0)
}
func (m *MockApplicationRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Application, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Application), args.Get(1).(int32), args.Error(2)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) CreateForApplication(ctx context.Context, payment *domain.Payment, applicationID int32, from, to domain.ApplicationStatus) error {
	args := m.Called(ctx, payment, applicationID, from, to)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, payment *domain.Payment, from domain.ReviewStatus) error {
	args := m.Called(ctx, payment, from)
	return args.Error(0)
}
func (m *MockPaymentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockPaymentRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentRepo) FinancialReport(ctx context.Context, filter domain.ListFilter) (*domain.FinancialReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialReport), args.Error(1)
}

// MockShareRepo
type MockShareRepo struct {
	mock.Mock
}

func (m *MockShareRepo) CreatePurchase(ctx context.Context, purchase *domain.SharePurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}
func (m *MockShareRepo) GetPurchase(ctx context.Context, id int32) (*domain.SharePurchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharePurchase), args.Error(1)
}
func (m *MockShareRepo) ApprovePurchase(ctx context.Context, purchase *domain.SharePurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}
func (m *MockShareRepo) RejectPurchase(ctx context.Context, purchase *domain.SharePurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}
func (m *MockShareRepo) DeletePurchase(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockShareRepo) ListPurchases(ctx context.Context, filter domain.ListFilter) ([]domain.SharePurchase, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.SharePurchase), args.Get(1).(int32), args.Error(2)
}
func (m *MockShareRepo) ApplyDeduction(ctx context.Context, plan *policy.DeductionPlan, deductedBy int32) ([]domain.User, error) {
	args := m.Called(ctx, plan, deductedBy)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockShareRepo) ListDeductions(ctx context.Context, filter domain.ListFilter) ([]domain.ShareDeduction, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ShareDeduction), args.Get(1).(int32), args.Error(2)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) UpdateStatus(ctx context.Context, claim *domain.Claim, from domain.ReviewStatus) error {
	args := m.Called(ctx, claim, from)
	return args.Error(0)
}
func (m *MockClaimRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockClaimRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Claim, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Claim), args.Get(1).(int32), args.Error(2)
}

// MockDocumentRepo
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}
func (m *MockDocumentRepo) GetByID(ctx context.Context, id int32) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
func (m *MockDocumentRepo) UpdateStatus(ctx context.Context, doc *domain.Document, from domain.ReviewStatus) error {
	args := m.Called(ctx, doc, from)
	return args.Error(0)
}
func (m *MockDocumentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDocumentRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Document), args.Get(1).(int32), args.Error(2)
}

// MockContactRepo
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockContactRepo) GetByID(ctx context.Context, id int32) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}
func (m *MockContactRepo) UpdateStatus(ctx context.Context, msg *domain.ContactMessage, from []domain.ContactStatus) error {
	args := m.Called(ctx, msg, from)
	return args.Error(0)
}
func (m *MockContactRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.ContactMessage, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ContactMessage), args.Get(1).(int32), args.Error(2)
}

// MockAnnouncementRepo
type MockAnnouncementRepo struct {
	mock.Mock
}

func (m *MockAnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAnnouncementRepo) GetByID(ctx context.Context, id int32) (*domain.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Announcement), args.Error(1)
}
func (m *MockAnnouncementRepo) Update(ctx context.Context, a *domain.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAnnouncementRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAnnouncementRepo) List(ctx context.Context, limit int32) ([]domain.Announcement, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Announcement), args.Error(1)
}

// MockMeetingRepo
type MockMeetingRepo struct {
	mock.Mock
}

func (m *MockMeetingRepo) Create(ctx context.Context, mt *domain.Meeting) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMeetingRepo) GetByID(ctx context.Context, id int32) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}
func (m *MockMeetingRepo) Update(ctx context.Context, mt *domain.Meeting) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMeetingRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMeetingRepo) ListUpcoming(ctx context.Context, limit int32) ([]domain.Meeting, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Meeting), args.Error(1)
}
func (m *MockMeetingRepo) Register(ctx context.Context, meetingID, userID int32) (*domain.MeetingRegistration, error) {
	args := m.Called(ctx, meetingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MeetingRegistration), args.Error(1)
}
func (m *MockMeetingRepo) ListRegistrations(ctx context.Context, meetingID int32) ([]domain.MeetingRegistration, error) {
	args := m.Called(ctx, meetingID)
	return args.Get(0).([]domain.MeetingRegistration), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
func (m *MockEmailService) SendDecisionNotification(ctx context.Context, email, name, subject, message string) error {
	args := m.Called(ctx, email, name, subject, message)
	return args.Error(0)
}
func (m *MockEmailService) SendContactReply(ctx context.Context, email, name, subject, reply string) error {
	args := m.Called(ctx, email, name, subject, reply)
	return args.Error(0)
}
func (m *MockEmailService) SendShareAdvisory(ctx context.Context, email, name string, sharesOwned, minimum int32) error {
	args := m.Called(ctx, email, name, sharesOwned, minimum)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingReviewDigest(ctx context.Context, email, name string, pending map[string]int32) error {
	args := m.Called(ctx, email, name, pending)
	return args.Error(0)
}

// MockFileStore
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, folder, filename, r)
	return args.String(0), args.Error(1)
}
func (m *MockFileStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockFileStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
