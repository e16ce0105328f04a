package service

import (
	"context"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/storage"
)

const folderShareProofs = "share_proofs"

type shareService struct {
	shareRepo  repository.ShareRepository
	files      storage.FileStore
	notifier   *Notifier
	priceCents int64
}

func NewShareService(shareRepo repository.ShareRepository, files storage.FileStore, notifier *Notifier, sharePriceCents int64) ShareService {
	return &shareService{shareRepo: shareRepo, files: files, notifier: notifier, priceCents: sharePriceCents}
}

func (s *shareService) Buy(ctx context.Context, actor lifecycle.Actor, p *domain.SharePurchase, proof *Upload) (*domain.SharePurchase, error) {
	if p.Quantity <= 0 {
		return nil, domain.Validationf("quantity must be greater than zero")
	}
	if !p.PaymentMethod.Valid() {
		return nil, domain.Validationf("unknown payment method %q", p.PaymentMethod)
	}

	p.UserID = actor.UserID
	p.Status = domain.ReviewStatusPending
	p.AmountPerShare = s.priceCents
	p.TotalAmount = int64(p.Quantity) * s.priceCents
	p.SharesAssigned = nil
	p.RejectionReason = ""
	p.Review = domain.Review{}

	if proof != nil {
		ref, err := s.files.Save(ctx, folderShareProofs, proof.Filename, proof.Reader)
		if err != nil {
			return nil, uploadError(err)
		}
		p.PaymentProof = ref
	}

	if err := s.shareRepo.CreatePurchase(ctx, p); err != nil {
		if p.PaymentProof != "" {
			_ = s.files.Delete(ctx, p.PaymentProof)
		}
		return nil, fmt.Errorf("failed to create share purchase: %w", err)
	}
	logger.Info("Share purchase submitted", "purchaseID", p.ID, "userID", p.UserID, "quantity", p.Quantity)
	return p, nil
}

func (s *shareService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	p, err := s.shareRepo.GetPurchase(ctx, id)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Transition(lifecycle.EntitySharePurchase, p.CurrentStatus(), lifecycle.ActionDelete, actor, p.UserID); err != nil {
		return err
	}
	if err := s.shareRepo.DeletePurchase(ctx, id); err != nil {
		return err
	}
	if p.PaymentProof != "" {
		_ = s.files.Delete(ctx, p.PaymentProof)
	}
	return nil
}

func (s *shareService) List(ctx context.Context, filter domain.ListFilter) ([]domain.SharePurchase, int32, error) {
	return s.shareRepo.ListPurchases(ctx, filter)
}

// Decide approves a purchase, crediting the assigned shares, or rejects it with a reason.
func (s *shareService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.SharePurchase, error) {
	entity := lifecycle.EntitySharePurchase
	if action != lifecycle.ActionApprove && action != lifecycle.ActionReject {
		return nil, refused(entity, action, domain.NewError(domain.ErrInvalidTransition, "%s is not an administrator decision", action))
	}

	p, err := s.shareRepo.GetPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, p, action, actor, pl)
	if err != nil {
		return nil, err
	}

	from := p.Status
	p.Stamp(actor.UserID, pl.Notes, time.Now().UTC())

	var title, message string
	if action == lifecycle.ActionApprove {
		assigned := p.Quantity
		if pl.SharesAssigned != nil {
			assigned = *pl.SharesAssigned
		}
		p.SharesAssigned = &assigned
		if err := s.shareRepo.ApprovePurchase(ctx, p); err != nil {
			return nil, refused(entity, action, err)
		}
		title = "Share purchase approved"
		message = fmt.Sprintf("Your purchase of %d shares has been approved and %d shares were added to your balance.", p.Quantity, assigned)
	} else {
		p.RejectionReason = pl.RejectionReason()
		if err := s.shareRepo.RejectPurchase(ctx, p); err != nil {
			return nil, refused(entity, action, err)
		}
		title = "Share purchase rejected"
		message = fmt.Sprintf("Your purchase of %d shares was rejected: %s", p.Quantity, p.RejectionReason)
	}

	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: p.ID, OwnerID: p.UserID,
		From: string(from), To: next, Actor: actor, Reason: p.RejectionReason,
		Title: title, Message: message,
	})
	return p, nil
}

func (s *shareService) ListDeductions(ctx context.Context, filter domain.ListFilter) ([]domain.ShareDeduction, int32, error) {
	return s.shareRepo.ListDeductions(ctx, filter)
}
