package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/repository"
	"pamoja-backend/internal/storage"
)

const folderDocuments = "documents"

type documentService struct {
	docRepo  repository.DocumentRepository
	files    storage.FileStore
	notifier *Notifier
}

func NewDocumentService(docRepo repository.DocumentRepository, files storage.FileStore, notifier *Notifier) DocumentService {
	return &documentService{docRepo: docRepo, files: files, notifier: notifier}
}

func (s *documentService) Upload(ctx context.Context, actor lifecycle.Actor, d *domain.Document, file *Upload) (*domain.Document, error) {
	if !d.DocumentType.Valid() {
		return nil, domain.Validationf("unknown document type %q", d.DocumentType)
	}
	if file == nil {
		return nil, domain.Validationf("a file is required")
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		d.Title = strings.ReplaceAll(string(d.DocumentType), "_", " ")
	}

	ref, err := s.files.Save(ctx, folderDocuments, file.Filename, file.Reader)
	if err != nil {
		return nil, uploadError(err)
	}
	d.File = ref
	d.UserID = actor.UserID
	d.Status = domain.ReviewStatusPending
	d.Review = domain.Review{}

	if err := s.docRepo.Create(ctx, d); err != nil {
		_ = s.files.Delete(ctx, ref)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return d, nil
}

func (s *documentService) Delete(ctx context.Context, actor lifecycle.Actor, id int32) error {
	d, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := lifecycle.Transition(lifecycle.EntityDocument, d.CurrentStatus(), lifecycle.ActionDelete, actor, d.UserID); err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.files.Delete(ctx, d.File)
	return nil
}

func (s *documentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, int32, error) {
	return s.docRepo.List(ctx, filter)
}

func (s *documentService) Open(ctx context.Context, actor lifecycle.Actor, id int32) (io.ReadCloser, string, error) {
	d, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !actor.IsStaff && d.UserID != actor.UserID {
		return nil, "", domain.NewError(domain.ErrForbidden, "you can only download your own documents")
	}
	return openFile(ctx, s.files, d.File, "document")
}

func (s *documentService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.Document, error) {
	entity := lifecycle.EntityDocument
	if action != lifecycle.ActionApprove && action != lifecycle.ActionReject {
		return nil, refused(entity, action, domain.NewError(domain.ErrInvalidTransition, "%s is not an administrator decision", action))
	}

	d, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, d, action, actor, pl)
	if err != nil {
		return nil, err
	}

	from := d.Status
	notes := pl.Notes
	title := "Document approved"
	message := fmt.Sprintf("Your document %q has been verified.", d.Title)
	if action == lifecycle.ActionReject {
		notes = pl.RejectionReason()
		title = "Document rejected"
		message = fmt.Sprintf("Your document %q was rejected: %s", d.Title, notes)
	}
	d.Status = domain.ReviewStatus(next)
	d.Stamp(actor.UserID, notes, time.Now().UTC())

	if err := s.docRepo.UpdateStatus(ctx, d, from); err != nil {
		return nil, refused(entity, action, err)
	}
	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: d.ID, OwnerID: d.UserID,
		From: string(from), To: next, Actor: actor, Reason: pl.RejectionReason(),
		Title: title, Message: message,
	})
	return d, nil
}
