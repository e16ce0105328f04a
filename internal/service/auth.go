package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/policy"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "invalid username or password")

type authService struct {
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentRepository
	appRepo      repository.ApplicationRepository
	claimRepo    repository.ClaimRepository
	noteRepo     repository.NotificationRepository
	announceRepo repository.AnnouncementRepository
	meetingRepo  repository.MeetingRepository
	tokens       security.TokenManager
	emailSvc     EmailService
	thresholds   policy.Thresholds
}

func NewAuthService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	appRepo repository.ApplicationRepository,
	claimRepo repository.ClaimRepository,
	noteRepo repository.NotificationRepository,
	announceRepo repository.AnnouncementRepository,
	meetingRepo repository.MeetingRepository,
	tokens security.TokenManager,
	emailSvc EmailService,
	thresholds policy.Thresholds,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		appRepo:      appRepo,
		claimRepo:    claimRepo,
		noteRepo:     noteRepo,
		announceRepo: announceRepo,
		meetingRepo:  meetingRepo,
		tokens:       tokens,
		emailSvc:     emailSvc,
		thresholds:   thresholds,
	}
}

func (s *authService) Register(ctx context.Context, r Registration) (*Session, error) {
	logger.EnterMethod("authService.Register", "username", r.Username)

	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Username == "" {
		return nil, domain.Validationf("username is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, domain.Validationf("a valid email address is required")
	}
	if len(r.Password) < minPasswordLength {
		return nil, domain.Validationf("password must be at least %d characters", minPasswordLength)
	}
	if err := s.ensureFree(ctx, 0, r.Username, r.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     r.Username,
		Email:        r.Email,
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Phone:        strings.TrimSpace(r.Phone),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Register", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.FullName()); err != nil {
		logger.Warn("Failed to send welcome email", "userID", user.ID, "error", err)
	}

	session, err := s.issue(user)
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return session, err
}

// ensureFree rejects a username or email already used by someone other than userID.
func (s *authService) ensureFree(ctx context.Context, userID int32, username, email string) error {
	if username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err == nil && existing.ID != userID {
			return domain.Validationf("username %q is already taken", username)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil && existing.ID != userID {
			return domain.Validationf("an account with this email already exists")
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}
	return nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.Validationf("username and password are required")
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Info("Login rejected", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}
	if err := loginAllowed(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func loginAllowed(u *domain.User) error {
	if u.IsActive {
		return nil
	}
	if u.DeactivationReason != "" {
		return domain.NewError(domain.ErrForbidden, "account is deactivated: %s", u.DeactivationReason)
	}
	return domain.NewError(domain.ErrForbidden, "account is deactivated")
}

func (s *authService) RefreshToken(ctx context.Context, userID int32) (*Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrUnauthorized, "account no longer exists")
		}
		return nil, err
	}
	if err := loginAllowed(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) issue(user *domain.User) (*Session, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *authService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID int32, firstName, lastName, phone, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Validationf("a valid email address is required")
		}
		if err := s.ensureFree(ctx, userID, "", email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if v := strings.TrimSpace(firstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		user.Phone = v
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.Validationf("current password is incorrect")
	}
	if len(newPassword) < minPasswordLength {
		return domain.Validationf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	logger.Info("Password changed", "userID", userID)
	return nil
}

func (s *authService) Access(ctx context.Context, userID int32) (*domain.User, gate.Decision, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, gate.Decision{}, err
	}
	if user.IsStaff || user.IsActivated {
		return user, gate.Allowed, nil
	}

	payments, _, err := s.paymentRepo.List(ctx, domain.ListFilter{
		UserID: userID,
		Status: string(domain.ReviewStatusPending),
		Limit:  500,
	})
	if err != nil {
		return nil, gate.Decision{}, fmt.Errorf("failed to list payments: %w", err)
	}
	return user, gate.CanAccess(user, payments), nil
}

func (s *authService) Dashboard(ctx context.Context, userID int32) (*domain.Dashboard, error) {
	user, decision, err := s.Access(ctx, userID)
	if err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		User:      user,
		Access:    decision.String(),
		ShareBand: string(s.thresholds.Classify(user)),
	}

	app, err := s.appRepo.GetLiveByUser(ctx, userID)
	switch {
	case err == nil:
		dash.Application = app
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	pending := domain.ListFilter{UserID: userID, Status: string(domain.ReviewStatusPending), Limit: 1}
	if _, dash.PendingPayments, err = s.paymentRepo.List(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}
	if _, dash.PendingClaims, err = s.claimRepo.List(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to count claims: %w", err)
	}
	if dash.UnreadNotifications, err = s.noteRepo.CountUnread(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	if dash.Announcements, err = s.announceRepo.List(ctx, 5); err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	if dash.UpcomingMeetings, err = s.meetingRepo.ListUpcoming(ctx, 5); err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return dash, nil
}
