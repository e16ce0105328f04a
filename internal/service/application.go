package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/storage"
)

const folderIDDocuments = "id_documents"

type applicationService struct {
	appRepo  repository.ApplicationRepository
	files    storage.FileStore
	notifier *Notifier
}

func NewApplicationService(appRepo repository.ApplicationRepository, files storage.FileStore, notifier *Notifier) ApplicationService {
	return &applicationService{appRepo: appRepo, files: files, notifier: notifier}
}

func (s *applicationService) Submit(ctx context.Context, actor lifecycle.Actor, app *domain.Application, idDocument *Upload) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Submit", "userID", actor.UserID, "type", app.MembershipType)

	app.UserID = actor.UserID
	app.Status = domain.ApplicationStatusPending
	app.Upgrade = false
	app.SupersededBy = nil
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if idDocument == nil {
		return nil, domain.Validationf("an ID document is required")
	}

	if _, err := s.appRepo.GetLiveByUser(ctx, actor.UserID); err == nil {
		return nil, domain.NewError(domain.ErrInvalidTransition, "you already have an open membership application")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}

	ref, err := s.files.Save(ctx, folderIDDocuments, idDocument.Filename, idDocument.Reader)
	if err != nil {
		return nil, uploadError(err)
	}
	app.IDDocument = ref

	if err := s.appRepo.Create(ctx, app); err != nil {
		_ = s.files.Delete(ctx, ref)
		logger.ExitMethodWithError("applicationService.Submit", err)
		return nil, err
	}
	logger.ExitMethod("applicationService.Submit", "applicationID", app.ID)
	return app, nil
}

// Upgrade replaces an approved single membership with a pending double one.
func (s *applicationService) Upgrade(ctx context.Context, actor lifecycle.Actor, app *domain.Application, idDocument *Upload) (*domain.Application, error) {
	logger.EnterMethod("applicationService.Upgrade", "userID", actor.UserID)

	live, err := s.appRepo.GetLiveByUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrInvalidTransition, "there is no approved membership to upgrade")
		}
		return nil, fmt.Errorf("failed to load current application: %w", err)
	}
	if live.Status != domain.ApplicationStatusApproved || live.MembershipType != domain.MembershipTypeSingle {
		return nil, domain.NewError(domain.ErrInvalidTransition, "only an approved single membership can be upgraded")
	}

	app.UserID = actor.UserID
	app.MembershipType = domain.MembershipTypeDouble
	app.Status = domain.ApplicationStatusPending
	app.Upgrade = true
	app.SupersededBy = nil
	if err := app.Validate(); err != nil {
		return nil, err
	}

	app.IDDocument = live.IDDocument
	if idDocument != nil {
		ref, err := s.files.Save(ctx, folderIDDocuments, idDocument.Filename, idDocument.Reader)
		if err != nil {
			return nil, uploadError(err)
		}
		app.IDDocument = ref
	}

	if err := s.appRepo.CreateUpgrade(ctx, app, live.ID); err != nil {
		logger.ExitMethodWithError("applicationService.Upgrade", err, "supersedes", live.ID)
		return nil, err
	}
	logger.ExitMethod("applicationService.Upgrade", "applicationID", app.ID, "supersedes", live.ID)
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, actor lifecycle.Actor, id int32) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff && app.UserID != actor.UserID {
		return nil, domain.NewError(domain.ErrForbidden, "you can only view your own applications")
	}
	return app, nil
}

func (s *applicationService) Update(ctx context.Context, actor lifecycle.Actor, changes *domain.Application, idDocument *Upload) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, changes.ID)
	if err != nil {
		return nil, err
	}
	if _, err := lifecycle.Transition(lifecycle.EntityApplication, app.CurrentStatus(), lifecycle.ActionEdit, actor, app.UserID); err != nil {
		return nil, err
	}

	app.FirstName = changes.FirstName
	app.LastName = changes.LastName
	app.Email = changes.Email
	app.Phone = changes.Phone
	app.DateOfBirth = changes.DateOfBirth
	app.IDNumber = changes.IDNumber
	app.Address = changes.Address
	app.City = changes.City
	app.State = changes.State
	app.ZipCode = changes.ZipCode
	app.EmergencyContactName = changes.EmergencyContactName
	app.EmergencyContactPhone = changes.EmergencyContactPhone
	app.SpouseName = changes.SpouseName
	app.SpouseIDNumber = changes.SpouseIDNumber
	app.SpousePhone = changes.SpousePhone
	app.SpouseEmail = changes.SpouseEmail
	app.ChildrenInfo = changes.ChildrenInfo
	if err := app.Validate(); err != nil {
		return nil, err
	}

	previous := app.IDDocument
	if idDocument != nil {
		ref, err := s.files.Save(ctx, folderIDDocuments, idDocument.Filename, idDocument.Reader)
		if err != nil {
			return nil, uploadError(err)
		}
		app.IDDocument = ref
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if idDocument != nil && previous != "" && !app.Upgrade {
		_ = s.files.Delete(ctx, previous)
	}
	return app, nil
}

// Delete removes a pending or rejected application. Deleting an upgrade restores the application it superseded.
func (s *applicationService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Transition(lifecycle.EntityApplication, app.CurrentStatus(), lifecycle.ActionDelete, actor, app.UserID); err != nil {
		return err
	}
	allowed := []domain.ApplicationStatus{domain.ApplicationStatusPending, domain.ApplicationStatusRejected}
	if err := s.appRepo.Delete(ctx, id, allowed); err != nil {
		return err
	}
	logger.Info("Application deleted", "applicationID", id, "userID", actor.UserID)
	return nil
}

func (s *applicationService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Application, int32, error) {
	return s.appRepo.List(ctx, filter)
}

func (s *applicationService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (*domain.Application, error) {
	entity := lifecycle.EntityApplication
	if action != lifecycle.ActionApprove && action != lifecycle.ActionReject {
		return nil, refused(entity, action, domain.NewError(domain.ErrInvalidTransition, "%s is not an administrator decision", action))
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, app, action, actor, p)
	if err != nil {
		return nil, err
	}

	from := app.Status
	app.Status = domain.ApplicationStatus(next)
	app.Stamp(actor.UserID, p.Notes, time.Now().UTC())
	if action == lifecycle.ActionReject {
		app.RejectionReason = p.RejectionReason()
	}
	if err := s.appRepo.UpdateStatus(ctx, app, from); err != nil {
		return nil, refused(entity, action, err)
	}

	title := "Membership application approved"
	message := fmt.Sprintf("Your %s membership application has been approved.", app.MembershipType)
	if action == lifecycle.ActionReject {
		title = "Membership application rejected"
		message = fmt.Sprintf("Your %s membership application was rejected: %s", app.MembershipType, app.RejectionReason)
	}
	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: app.ID, OwnerID: app.UserID,
		From: string(from), To: next, Actor: actor, Reason: app.RejectionReason,
		Title: title, Message: message,
	})
	return app, nil
}

// uploadError maps storage failures onto the error taxonomy.
func uploadError(err error) error {
	if errors.Is(err, storage.ErrUnsupportedType) {
		return domain.Validationf("%v", err)
	}
	return fmt.Errorf("failed to store file: %w", err)
}
