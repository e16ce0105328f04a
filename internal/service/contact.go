package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

type contactService struct {
	contactRepo repository.ContactRepository
	emailSvc    EmailService
	notifier    *Notifier
}

func NewContactService(contactRepo repository.ContactRepository, emailSvc EmailService, notifier *Notifier) ContactService {
	return &contactService{contactRepo: contactRepo, emailSvc: emailSvc, notifier: notifier}
}

// Submit stores a message from a visitor or, when senderID is set, a signed-in member.
func (s *contactService) Submit(ctx context.Context, senderID *int32, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	missing := []string{}
	if msg.Name == "" {
		missing = append(missing, "name")
	}
	if msg.Email == "" {
		missing = append(missing, "email")
	}
	if msg.Subject == "" {
		missing = append(missing, "subject")
	}
	if msg.Message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return nil, domain.Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, domain.Validationf("a valid email address is required")
	}

	msg.UserID = senderID
	msg.Status = domain.ContactStatusNew
	msg.AdminReply = ""
	msg.RepliedBy = nil
	msg.RepliedOn = nil
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	logger.Info("Contact message received", "messageID", msg.ID, "subject", msg.Subject)
	return msg, nil
}

func (s *contactService) List(ctx context.Context, filter domain.ListFilter) ([]domain.ContactMessage, int32, error) {
	return s.contactRepo.List(ctx, filter)
}

// Decide marks a message read or replies to it. Replies are emailed to the sender.
func (s *contactService) Decide(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, pl lifecycle.Payload) (*domain.ContactMessage, error) {
	entity := lifecycle.EntityContactMessage
	msg, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := check(entity, msg, action, actor, pl)
	if err != nil {
		return nil, err
	}

	from := msg.Status
	msg.Status = domain.ContactStatus(next)
	if action == lifecycle.ActionReply {
		now := time.Now().UTC()
		replier := actor.UserID
		msg.AdminReply = strings.TrimSpace(pl.Reply)
		msg.RepliedBy = &replier
		msg.RepliedOn = &now
	}
	if err := s.contactRepo.UpdateStatus(ctx, msg, []domain.ContactStatus{from}); err != nil {
		return nil, refused(entity, action, err)
	}

	s.notifier.Applied(ctx, Outcome{
		Entity: entity, Action: action, ID: msg.ID, OwnerID: msg.OwnerID(),
		From: string(from), To: next, Actor: actor,
	})
	if action == lifecycle.ActionReply {
		if err := s.emailSvc.SendContactReply(ctx, msg.Email, msg.Name, msg.Subject, msg.AdminReply); err != nil {
			logger.Warn("Failed to email contact reply", "messageID", msg.ID, "error", err)
		}
		if msg.UserID != nil {
			s.notifier.Notify(ctx, *msg.UserID, "Reply to your message", msg.AdminReply, map[string]string{
				"type":       "contact_reply",
				"message_id": fmt.Sprintf("%d", msg.ID),
			}, false)
		}
	}
	return msg, nil
}
