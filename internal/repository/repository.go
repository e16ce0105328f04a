package repository

import (
	"context"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/policy"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.User, int32, error)
	ListActive(ctx context.Context) ([]domain.User, error)
	ListStaff(ctx context.Context) ([]domain.User, error)
	Stats(ctx context.Context, thresholds policy.Thresholds) (*domain.UserStats, error)

	// Status-guarded; a user not in the expected state yields ErrInvalidTransition.
	Activate(ctx context.Context, id int32) (*domain.User, error)
	Deactivate(ctx context.Context, id int32, reason string) (*domain.User, error)
	UpdateShares(ctx context.Context, id int32, sharesOwned, availableShares int32) (*domain.User, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	// CreateUpgrade inserts app and marks the superseded application in one transaction.
	CreateUpgrade(ctx context.Context, app *domain.Application, supersedes int32) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	GetLiveByUser(ctx context.Context, userID int32) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	// UpdateStatus rejecting an upgrade also restores the application it superseded.
	UpdateStatus(ctx context.Context, app *domain.Application, from domain.ApplicationStatus) error
	Delete(ctx context.Context, id int32, allowed []domain.ApplicationStatus) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Application, int32, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// CreateForApplication inserts a membership payment and moves its application from one status to another in one transaction.
	CreateForApplication(ctx context.Context, payment *domain.Payment, applicationID int32, from, to domain.ApplicationStatus) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, payment *domain.Payment, from domain.ReviewStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, int32, error)
	FinancialReport(ctx context.Context, filter domain.ListFilter) (*domain.FinancialReport, error)
}

type ShareRepository interface {
	CreatePurchase(ctx context.Context, purchase *domain.SharePurchase) error
	GetPurchase(ctx context.Context, id int32) (*domain.SharePurchase, error)
	// ApprovePurchase marks the purchase approved and credits the shares in one transaction.
	ApprovePurchase(ctx context.Context, purchase *domain.SharePurchase) error
	RejectPurchase(ctx context.Context, purchase *domain.SharePurchase) error
	DeletePurchase(ctx context.Context, id int32) error
	ListPurchases(ctx context.Context, filter domain.ListFilter) ([]domain.SharePurchase, int32, error)

	// ApplyDeduction applies plan, records one deduction row per entry and deactivates the planned users.
	ApplyDeduction(ctx context.Context, plan *policy.DeductionPlan, deductedBy int32) ([]domain.User, error)
	ListDeductions(ctx context.Context, filter domain.ListFilter) ([]domain.ShareDeduction, int32, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id int32) (*domain.Claim, error)
	UpdateStatus(ctx context.Context, claim *domain.Claim, from domain.ReviewStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Claim, int32, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id int32) (*domain.Document, error)
	UpdateStatus(ctx context.Context, doc *domain.Document, from domain.ReviewStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, int32, error)
}

type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	GetByID(ctx context.Context, id int32) (*domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, msg *domain.ContactMessage, from []domain.ContactStatus) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.ContactMessage, int32, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) error
	GetByID(ctx context.Context, id int32) (*domain.Announcement, error)
	Update(ctx context.Context, a *domain.Announcement) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, limit int32) ([]domain.Announcement, error)
}

type MeetingRepository interface {
	Create(ctx context.Context, m *domain.Meeting) error
	GetByID(ctx context.Context, id int32) (*domain.Meeting, error)
	Update(ctx context.Context, m *domain.Meeting) error
	Delete(ctx context.Context, id int32) error
	ListUpcoming(ctx context.Context, limit int32) ([]domain.Meeting, error)
	// Register adds a registration unless the meeting is full or the user already registered.
	Register(ctx context.Context, meetingID, userID int32) (*domain.MeetingRegistration, error)
	ListRegistrations(ctx context.Context, meetingID int32) ([]domain.MeetingRegistration, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
