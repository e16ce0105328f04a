package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/storage"
)

const folderClaimDocuments = "claim_documents"

type claimService struct {
	claimRepo repository.ClaimRepository
	files     storage.FileStore
	notifier  *Notifier
}

func NewClaimService(claimRepo repository.ClaimRepository, files storage.FileStore, notifier *Notifier) ClaimService {
	return &claimService{claimRepo: claimRepo, files: files, notifier: notifier}
}

func (s *claimService) Submit(ctx context.Context, actor lifecycle.Actor, c *domain.Claim, document *Upload) (*domain.Claim, error) {
	if !c.ClaimType.Valid() {
		return nil, domain.Validationf("unknown claim type %q", c.ClaimType)
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return nil, domain.Validationf("a title is required")
	}
	if c.AmountRequested <= 0 {
		return nil, domain.Validationf("requested amount must be greater than zero")
	}

	c.UserID = actor.UserID
	c.Status = domain.ReviewStatusPending
	c.AmountApproved = nil
	c.Review = domain.Review{}

	if document != nil {
		ref, err := s.files.Save(ctx, folderClaimDocuments, document.Filename, document.Reader)
		if err != nil {
			return nil, uploadError(err)
		}
		c.SupportingDocument = ref
	}

	if err := s.claimRepo.Create(ctx, c); err != nil {
		if c.SupportingDocument != "" {
			_ = s.files.Delete(ctx, c.SupportingDocument)
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}
	logger.Info("Claim submitted", "claimID", c.ID, "userID", c.UserID, "type", c.ClaimType)
	return c, nil
}

func (s *claimService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	c, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Transition(lifecycle.EntityClaim, c.CurrentStatus(), lifecycle.ActionDelete, actor, c.UserID); err != nil {
		return err
	}
	if err := s.claimRepo.Delete(ctx, id); err != nil {
		return err
	}
	if c.SupportingDocument != "" {
		_ = s.files.Delete(ctx, c.SupportingDocument)
	}
	return nil
}

func (s *claimService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Claim, int32, error) {
	return s.claimRepo.List(ctx, filter)
}

// Decide approves a claim, defaulting the approved amount to the requested one, or rejects it.
func (s *claimService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.Claim, error) {
	entity := lifecycle.EntityClaim
	if action != lifecycle.ActionApprove && action != lifecycle.ActionReject {
		return nil, refused(entity, action, domain.NewError(domain.ErrInvalidTransition, "%s is not an administrator decision", action))
	}

	c, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, c, action, actor, pl)
	if err != nil {
		return nil, err
	}

	from := c.Status
	notes := pl.Notes
	title := "Claim approved"
	var message string
	if action == lifecycle.ActionApprove {
		amount := c.AmountRequested
		if pl.AmountApproved != nil {
			amount = *pl.AmountApproved
		}
		if amount > c.AmountRequested {
			return nil, refused(entity, action, domain.Validationf("approved amount cannot exceed the requested %s", dollars(c.AmountRequested)))
		}
		c.AmountApproved = &amount
		message = fmt.Sprintf("Your %s claim %q has been approved for %s.", c.ClaimType, c.Title, dollars(amount))
	} else {
		notes = pl.RejectionReason()
		title = "Claim rejected"
		message = fmt.Sprintf("Your %s claim %q was rejected: %s", c.ClaimType, c.Title, notes)
	}
	c.Status = domain.ReviewStatus(next)
	c.Stamp(actor.UserID, notes, time.Now().UTC())

	if err := s.claimRepo.UpdateStatus(ctx, c, from); err != nil {
		return nil, refused(entity, action, err)
	}
	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: c.ID, OwnerID: c.UserID,
		From: string(from), To: next, Actor: actor, Reason: pl.RejectionReason(),
		Title: title, Message: message,
	})
	return c, nil
}
