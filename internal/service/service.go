package service

import (
	"context"
	"io"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/lifecycle"
)

// Upload is a file received with a submission.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Session is returned by register, login and refresh.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type AuthService interface {
	Register(ctx context.Context, r Registration) (*Session, error)
	Login(ctx context.Context, identifier, password string) (*Session, error)
	RefreshToken(ctx context.Context, userID int32) (*Session, error)
	GetUser(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, firstName, lastName, phone, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error
	Access(ctx context.Context, userID int32) (*domain.User, gate.Decision, error)
	Dashboard(ctx context.Context, userID int32) (*domain.Dashboard, error)
}

type ApplicationService interface {
	Submit(ctx context.Context, actor lifecycle.Actor, app *domain.Application, idDocument *Upload) (*domain.Application, error)
	Upgrade(ctx context.Context, actor lifecycle.Actor, app *domain.Application, idDocument *Upload) (*domain.Application, error)
	Get(ctx context.Context, actor lifecycle.Actor, id int32) (*domain.Application, error)
	Update(ctx context.Context, actor lifecycle.Actor, app *domain.Application, idDocument *Upload) (*domain.Application, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Application, int32, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Application, error)
}

type PaymentService interface {
	SubmitActivation(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload) (*domain.Payment, error)
	Submit(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload) (*domain.Payment, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, int32, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Payment, error)
	Receipt(ctx context.Context, actor lifecycle.Actor, id int32) (string, error)
	Proof(ctx context.Context, id int32) (io.ReadCloser, string, error)
	FinancialReport(ctx context.Context, filter domain.ListFilter) (*domain.FinancialReport, error)
}

type ShareService interface {
	Buy(ctx context.Context, actor lifecycle.Actor, p *domain.SharePurchase, proof *Upload) (*domain.SharePurchase, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.SharePurchase, int32, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.SharePurchase, error)
	ListDeductions(ctx context.Context, filter domain.ListFilter) ([]domain.ShareDeduction, int32, error)
}

type ClaimService interface {
	Submit(ctx context.Context, actor lifecycle.Actor, c *domain.Claim, document *Upload) (*domain.Claim, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Claim, int32, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Claim, error)
}

type DocumentService interface {
	Upload(ctx context.Context, actor lifecycle.Actor, d *domain.Document, file *Upload) (*domain.Document, error)
	Delete(ctx context.Context, actor lifecycle.Actor, id int32) error
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, int32, error)
	Open(ctx context.Context, actor lifecycle.Actor, id int32) (io.ReadCloser, string, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Document, error)
}

type ContactService interface {
	Submit(ctx context.Context, senderID *int32, msg *domain.ContactMessage) (*domain.ContactMessage, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.ContactMessage, int32, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.ContactMessage, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, filter domain.ListFilter) ([]domain.User, int32, error)
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	Stats(ctx context.Context) (*domain.UserStats, error)
	Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.User, error)
	UpdateShares(ctx context.Context, actor lifecycle.Actor, id, sharesOwned, availableShares int32) (*domain.User, error)
	DeductSharesFromAll(ctx context.Context, actor lifecycle.Actor, amount int32, reason string) (*domain.DeductionResult, error)
}

type ContentService interface {
	ListAnnouncements(ctx context.Context, limit int32) ([]domain.Announcement, error)
	CreateAnnouncement(ctx context.Context, actor lifecycle.Actor, a *domain.Announcement) (*domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, actor lifecycle.Actor, a *domain.Announcement) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, actor lifecycle.Actor, id int32) error

	ListMeetings(ctx context.Context, limit int32) ([]domain.Meeting, error)
	GetMeeting(ctx context.Context, id int32) (*domain.Meeting, error)
	CreateMeeting(ctx context.Context, actor lifecycle.Actor, m *domain.Meeting) (*domain.Meeting, error)
	UpdateMeeting(ctx context.Context, actor lifecycle.Actor, m *domain.Meeting) (*domain.Meeting, error)
	DeleteMeeting(ctx context.Context, actor lifecycle.Actor, id int32) error
	Register(ctx context.Context, actor lifecycle.Actor, meetingID int32) (*domain.MeetingRegistration, error)
	ListRegistrations(ctx context.Context, meetingID int32) ([]domain.MeetingRegistration, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendDecisionNotification(ctx context.Context, email, name, subject, message string) error
	SendContactReply(ctx context.Context, email, name, subject, reply string) error
	SendShareAdvisory(ctx context.Context, email, name string, sharesOwned, minimum int32) error
	SendPendingReviewDigest(ctx context.Context, email, name string, pending map[string]int32) error
}
