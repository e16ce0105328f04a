package service

import (
	"context"
	"fmt"
	"strings"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/metrics"
	"pamoja-backend/internal/policy"
	"pamoja-backend/internal/repository"
)

type adminService struct {
	userRepo   repository.UserRepository
	shareRepo  repository.ShareRepository
	notifier   *Notifier
	thresholds policy.Thresholds
}

func NewAdminService(
	userRepo repository.UserRepository,
	shareRepo repository.ShareRepository,
	notifier *Notifier,
	thresholds policy.Thresholds,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		shareRepo:  shareRepo,
		notifier:   notifier,
		thresholds: thresholds,
	}
}

func (s *adminService) ListUsers(ctx context.Context, filter domain.ListFilter) ([]domain.User, int32, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *adminService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *adminService) Stats(ctx context.Context) (*domain.UserStats, error) {
	return s.userRepo.Stats(ctx, s.thresholds)
}

// Decide activates or deactivates a user account.
func (s *adminService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.User, error) {
	entity := lifecycle.EntityUser
	logger.EnterMethod("adminService.Decide", "userID", id, "action", action)

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, user, action, actor, pl)
	if err != nil {
		logger.ExitMethodWithError("adminService.Decide", err, "userID", id)
		return nil, err
	}

	from := user.CurrentStatus()
	var updated *domain.User
	var title, message string
	switch action {
	case lifecycle.ActionActivate:
		updated, err = s.userRepo.Activate(ctx, id)
		title = "Account activated"
		message = "Your account has been activated. All member features are now available."
	case lifecycle.ActionDeactivate:
		reason := strings.TrimSpace(pl.Reason)
		updated, err = s.userRepo.Deactivate(ctx, id, reason)
		title = "Account deactivated"
		message = "Your account has been deactivated: " + reason
	}
	if err != nil {
		logger.ExitMethodWithError("adminService.Decide", err, "userID", id)
		return nil, refused(entity, action, err)
	}

	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: id, OwnerID: id,
		From: from, To: next, Actor: actor, Reason: pl.Reason,
		Title: title, Message: message,
	})
	logger.ExitMethod("adminService.Decide", "userID", id, "status", updated.CurrentStatus())
	return updated, nil
}

// UpdateShares sets both balances directly. It never activates or deactivates anyone.
func (s *adminService) UpdateShares(ctx context.Context, actor lifecycle.Actor, id, sharesOwned, availableShares int32) (*domain.User, error) {
	if !actor.IsStaff {
		return nil, domain.NewError(domain.ErrForbidden, "only administrators can update shares")
	}
	if sharesOwned < 0 || availableShares < 0 {
		return nil, domain.Validationf("share balances cannot be negative")
	}
	if availableShares > sharesOwned {
		return nil, domain.Validationf("available shares cannot exceed shares owned")
	}

	user, err := s.userRepo.UpdateShares(ctx, id, sharesOwned, availableShares)
	if err != nil {
		return nil, err
	}
	logger.Info("Shares updated", "userID", id, "sharesOwned", sharesOwned, "availableShares", availableShares, "adminID", actor.UserID)
	return user, nil
}

// DeductSharesFromAll removes amount shares from every active member holding at least amount,
// deactivating those left below the critical threshold.
func (s *adminService) DeductSharesFromAll(ctx context.Context, actor lifecycle.Actor, amount int32, reason string) (*domain.DeductionResult, error) {
	logger.EnterMethod("adminService.DeductSharesFromAll", "amount", amount)
	if !actor.IsStaff {
		return nil, domain.NewError(domain.ErrForbidden, "only administrators can deduct shares")
	}

	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	plan, err := s.thresholds.PlanDeduction(users, amount, reason)
	if err != nil {
		return nil, err
	}

	result := &domain.DeductionResult{
		Amount:       plan.Amount,
		Reason:       plan.Reason,
		UsersSkipped: len(plan.Skipped),
		Users:        []domain.User{},
	}
	if plan.UsersAffected() == 0 {
		logger.ExitMethod("adminService.DeductSharesFromAll", "usersAffected", 0)
		return result, nil
	}

	updated, err := s.shareRepo.ApplyDeduction(ctx, plan, actor.UserID)
	if err != nil {
		logger.ExitMethodWithError("adminService.DeductSharesFromAll", err)
		return nil, fmt.Errorf("failed to apply deduction: %w", err)
	}
	result.Users = updated
	result.UsersAffected = plan.UsersAffected()
	result.UsersDeactivated = plan.UsersDeactivated()
	metrics.RecordDeduction(plan.Amount, result.UsersAffected, result.UsersDeactivated)

	deactivated := map[int32]bool{}
	for _, id := range plan.DeactivatedIDs() {
		deactivated[id] = true
	}
	for _, e := range plan.Entries {
		s.notifier.Notify(ctx, e.UserID, "Shares deducted",
			fmt.Sprintf("%d shares were deducted from your balance (%s). Your balance is now %d.", plan.Amount, plan.Reason, e.After),
			map[string]string{"type": "share_deduction"}, !deactivated[e.UserID])
		if deactivated[e.UserID] {
			s.notifier.Applied(ctx, Outcome{
				Entity:  lifecycle.EntityUser,
				Action:  lifecycle.ActionDeactivate,
				ID:      e.UserID,
				OwnerID: e.UserID,
				From:    string(domain.ActivationStatusActivated),
				To:      string(domain.ActivationStatusDeactivated),
				Actor:   actor,
				Reason:  plan.DeactivationReason(),
				Title:   "Account deactivated",
				Message: "Your account has been deactivated: " + plan.DeactivationReason(),
			})
		}
	}

	logger.ExitMethod("adminService.DeductSharesFromAll", "usersAffected", result.UsersAffected, "usersDeactivated", result.UsersDeactivated)
	return result, nil
}
