package http

import (
	"context"
	"io"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// The mocks embed their interface; methods a test does not stub panic if called.

type MockAuthService struct {
	service.AuthService
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*service.Session, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, userID int32) (*service.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Access(ctx context.Context, userID int32) (*domain.User, gate.Decision, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(gate.Decision), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(gate.Decision), args.Error(2)
}

type MockApplicationService struct {
	service.ApplicationService
	mock.Mock
}

func (m *MockApplicationService) Submit(ctx context.Context, actor lifecycle.Actor, app *domain.Application, doc *service.Upload) (*domain.Application, error) {
	args := m.Called(ctx, actor, app, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockApplicationService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Application, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Application), args.Get(1).(int32), args.Error(2)
}

func (m *MockApplicationService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Application, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

type MockPaymentService struct {
	service.PaymentService
	mock.Mock
}

func (m *MockPaymentService) SubmitActivation(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *service.Upload) (*domain.Payment, error) {
	args := m.Called(ctx, actor, p, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockPaymentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}

func (m *MockPaymentService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Payment, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) Receipt(ctx context.Context, actor lifecycle.Actor, id int32) (string, error) {
	args := m.Called(ctx, actor, id)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) Proof(ctx context.Context, id int32) (io.ReadCloser, string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

type MockShareService struct {
	service.ShareService
	mock.Mock
}

func (m *MockShareService) Buy(ctx context.Context, actor lifecycle.Actor, p *domain.SharePurchase, proof *service.Upload) (*domain.SharePurchase, error) {
	args := m.Called(ctx, actor, p, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharePurchase), args.Error(1)
}

func (m *MockShareService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockShareService) List(ctx context.Context, filter domain.ListFilter) ([]domain.SharePurchase, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.SharePurchase), args.Get(1).(int32), args.Error(2)
}

func (m *MockShareService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.SharePurchase, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SharePurchase), args.Error(1)
}

func (m *MockShareService) ListDeductions(ctx context.Context, filter domain.ListFilter) ([]domain.ShareDeduction, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ShareDeduction), args.Get(1).(int32), args.Error(2)
}

type MockClaimService struct {
	service.ClaimService
	mock.Mock
}

func (m *MockClaimService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockClaimService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Claim, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Claim), args.Get(1).(int32), args.Error(2)
}

func (m *MockClaimService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Claim, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

type MockDocumentService struct {
	service.DocumentService
	mock.Mock
}

func (m *MockDocumentService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockDocumentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Document), args.Get(1).(int32), args.Error(2)
}

func (m *MockDocumentService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Document, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

type MockContactService struct {
	service.ContactService
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, senderID *int32, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	args := m.Called(ctx, senderID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, filter domain.ListFilter) ([]domain.ContactMessage, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ContactMessage), args.Get(1).(int32), args.Error(2)
}

func (m *MockContactService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.ContactMessage, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactMessage), args.Error(1)
}

type MockAdminService struct {
	service.AdminService
	mock.Mock
}

func (m *MockAdminService) ListUsers(ctx context.Context, filter domain.ListFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

func (m *MockAdminService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.User, error) {
	args := m.Called(ctx, actor, id, action, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminService) UpdateShares(ctx context.Context, actor lifecycle.Actor, id, sharesOwned, availableShares int32) (*domain.User, error) {
	args := m.Called(ctx, actor, id, sharesOwned, availableShares)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAdminService) DeductSharesFromAll(ctx context.Context, actor lifecycle.Actor, amount int32, reason string) (*domain.DeductionResult, error) {
	args := m.Called(ctx, actor, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeductionResult), args.Error(1)
}

type MockContentService struct {
	service.ContentService
	mock.Mock
}

func (m *MockContentService) DeleteAnnouncement(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockContentService) DeleteMeeting(ctx context.Context, actor lifecycle.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockNotificationService struct {
	service.NotificationService
	mock.Mock
}
