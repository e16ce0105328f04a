package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/storage"
)

const folderPaymentProofs = "payment_proofs"

// Fees are the default amounts used when a submission leaves the amount blank.
type Fees struct {
	ActivationCents int64
	SingleCents     int64
	DoubleCents     int64
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	appRepo     repository.ApplicationRepository
	userRepo    repository.UserRepository
	files       storage.FileStore
	notifier    *Notifier
	fees        Fees
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	files storage.FileStore,
	notifier *Notifier,
	fees Fees,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		appRepo:     appRepo,
		userRepo:    userRepo,
		files:       files,
		notifier:    notifier,
		fees:        fees,
	}
}

// SubmitActivation records an activation fee proof. The account stays unactivated until an administrator activates it.
func (s *paymentService) SubmitActivation(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload) (*domain.Payment, error) {
	logger.EnterMethod("paymentService.SubmitActivation", "userID", actor.UserID)

	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsActivated {
		return nil, domain.NewError(domain.ErrInvalidTransition, "your account is already activated")
	}

	mine, _, err := s.paymentRepo.List(ctx, domain.ListFilter{UserID: actor.UserID, Status: string(domain.ReviewStatusPending), Limit: 500})
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	for i := range mine {
		if mine[i].IsPendingActivation() {
			return nil, domain.NewError(domain.ErrInvalidTransition, "an activation payment is already awaiting review")
		}
	}

	p.PaymentType = domain.PaymentTypeActivationFee
	p.ApplicationID = nil
	if p.AmountCents == 0 {
		p.AmountCents = s.fees.ActivationCents
	}
	if proof == nil {
		return nil, domain.Validationf("a payment proof is required")
	}
	created, err := s.create(ctx, actor, p, proof)
	if err != nil {
		logger.ExitMethodWithError("paymentService.SubmitActivation", err)
		return nil, err
	}
	logger.ExitMethod("paymentService.SubmitActivation", "paymentID", created.ID)
	return created, nil
}

// Submit records any other payment. Membership fees move the open application to payment_submitted.
func (s *paymentService) Submit(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload) (*domain.Payment, error) {
	if p.PaymentType == domain.PaymentTypeActivationFee {
		return s.SubmitActivation(ctx, actor, p, proof)
	}
	if !p.PaymentType.Valid() {
		return nil, domain.Validationf("unknown payment type %q", p.PaymentType)
	}
	if !p.PaymentType.IsMembership() {
		p.ApplicationID = nil
		return s.create(ctx, actor, p, proof)
	}

	app, err := s.appRepo.GetLiveByUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrInvalidTransition, "there is no open membership application to pay for")
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	wantType := domain.PaymentTypeMembershipSingle
	fee := s.fees.SingleCents
	if app.MembershipType == domain.MembershipTypeDouble {
		wantType = domain.PaymentTypeMembershipDouble
		fee = s.fees.DoubleCents
	}
	if p.PaymentType != wantType {
		return nil, domain.Validationf("a %s application requires a %s payment", app.MembershipType, wantType)
	}
	next, err := lifecycle.Transition(lifecycle.EntityApplication, app.CurrentStatus(), lifecycle.ActionSubmitPayment, actor, app.UserID)
	if err != nil {
		return nil, err
	}

	if p.AmountCents == 0 {
		p.AmountCents = fee
	}
	p.ApplicationID = &app.ID
	from, to := app.Status, domain.ApplicationStatus(next)
	created, err := s.save(ctx, actor, p, proof, func(ctx context.Context, p *domain.Payment) error {
		return s.paymentRepo.CreateForApplication(ctx, p, app.ID, from, to)
	})
	if err != nil {
		return nil, err
	}

	app.Status = to
	s.notifier.Applied(ctx, Outcome{
		Entity: lifecycle.EntityApplication, Action: lifecycle.ActionSubmitPayment,
		ID: app.ID, OwnerID: app.UserID, From: string(from), To: next, Actor: actor,
	})
	return created, nil
}

func (s *paymentService) create(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload) (*domain.Payment, error) {
	return s.save(ctx, actor, p, proof, s.paymentRepo.Create)
}

// save validates p, stores its proof and runs insert. The proof is removed again if insert fails.
func (s *paymentService) save(ctx context.Context, actor lifecycle.Actor, p *domain.Payment, proof *Upload,
	insert func(context.Context, *domain.Payment) error) (*domain.Payment, error) {
	p.UserID = actor.UserID
	p.Status = domain.ReviewStatusPending
	p.Review = domain.Review{}
	if !p.PaymentMethod.Valid() {
		return nil, domain.Validationf("unknown payment method %q", p.PaymentMethod)
	}
	if p.AmountCents <= 0 {
		return nil, domain.Validationf("amount must be greater than zero")
	}

	if proof != nil {
		ref, err := s.files.Save(ctx, folderPaymentProofs, proof.Filename, proof.Reader)
		if err != nil {
			return nil, uploadError(err)
		}
		p.PaymentProof = ref
	}

	if err := insert(ctx, p); err != nil {
		if p.PaymentProof != "" {
			_ = s.files.Delete(ctx, p.PaymentProof)
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	logger.Info("Payment submitted", "paymentID", p.ID, "userID", p.UserID, "type", p.PaymentType, "amountCents", p.AmountCents)
	return p, nil
}

func (s *paymentService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Transition(lifecycle.EntityPayment, p.CurrentStatus(), lifecycle.ActionDelete, actor, p.UserID); err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if p.PaymentProof != "" {
		_ = s.files.Delete(ctx, p.PaymentProof)
	}
	return nil
}

func (s *paymentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Payment, int32, error) {
	return s.paymentRepo.List(ctx, filter)
}

// Decide approves or rejects a payment. Approval never activates the account.
func (s *paymentService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.Payment, error) {
	entity := lifecycle.EntityPayment
	if action != lifecycle.ActionApprove && action != lifecycle.ActionReject {
		return nil, refused(entity, action, domain.NewError(domain.ErrInvalidTransition, "%s is not an administrator decision", action))
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, p, action, actor, pl)
	if err != nil {
		return nil, err
	}

	from := p.Status
	p.Status = domain.ReviewStatus(next)
	notes := pl.Notes
	if action == lifecycle.ActionReject {
		notes = pl.RejectionReason()
	}
	p.Stamp(actor.UserID, notes, time.Now().UTC())
	if err := s.paymentRepo.UpdateStatus(ctx, p, from); err != nil {
		return nil, refused(entity, action, err)
	}

	label := strings.ReplaceAll(string(p.PaymentType), "_", " ")
	title := "Payment approved"
	message := fmt.Sprintf("Your %s payment of %s has been approved.", label, dollars(p.AmountCents))
	if p.PaymentType == domain.PaymentTypeActivationFee {
		message += " An administrator will activate your account shortly."
	}
	if action == lifecycle.ActionReject {
		title = "Payment rejected"
		message = fmt.Sprintf("Your %s payment of %s was rejected: %s", label, dollars(p.AmountCents), notes)
	}
	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: p.ID, OwnerID: p.UserID,
		From: string(from), To: next, Actor: actor, Reason: pl.RejectionReason(),
		Title: title, Message: message,
	})
	return p, nil
}

// Receipt renders a plain text receipt for an approved payment.
func (s *paymentService) Receipt(ctx context.Context, actor lifecycle.Actor, id int32) (string, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !actor.IsStaff && p.UserID != actor.UserID {
		return "", domain.NewError(domain.ErrForbidden, "you can only view receipts for your own payments")
	}
	if p.Status != domain.ReviewStatusApproved {
		return "", domain.NewError(domain.ErrInvalidTransition, "receipts are only available for approved payments")
	}
	user, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("PAYMENT RECEIPT\n")
	b.WriteString("===============\n\n")
	fmt.Fprintf(&b, "Receipt No:     PMT-%06d\n", p.ID)
	fmt.Fprintf(&b, "Date:           %s\n", p.CreatedOn.Format("2006-01-02"))
	fmt.Fprintf(&b, "Member:         %s (%s)\n", user.FullName(), user.Email)
	fmt.Fprintf(&b, "Payment type:   %s\n", p.PaymentType)
	fmt.Fprintf(&b, "Method:         %s\n", p.PaymentMethod)
	if p.TransactionID != "" {
		fmt.Fprintf(&b, "Transaction ID: %s\n", p.TransactionID)
	}
	fmt.Fprintf(&b, "Amount:         %s\n", dollars(p.AmountCents))
	fmt.Fprintf(&b, "Status:         %s\n", p.Status)
	if p.ReviewedOn != nil {
		fmt.Fprintf(&b, "Approved on:    %s\n", p.ReviewedOn.Format("2006-01-02"))
	}
	return b.String(), nil
}

func (s *paymentService) Proof(ctx context.Context, id int32) (io.ReadCloser, string, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return openFile(ctx, s.files, p.PaymentProof, "payment proof")
}

func (s *paymentService) FinancialReport(ctx context.Context, filter domain.ListFilter) (*domain.FinancialReport, error) {
	return s.paymentRepo.FinancialReport(ctx, filter)
}

func openFile(ctx context.Context, files storage.FileStore, ref, what string) (io.ReadCloser, string, error) {
	if ref == "" {
		return nil, "", domain.NotFoundf("no %s was uploaded", what)
	}
	rc, err := files.Open(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", domain.NotFoundf("%s file is missing", what)
		}
		return nil, "", fmt.Errorf("failed to open %s: %w", what, err)
	}
	return rc, storage.ContentType(ref), nil
}
