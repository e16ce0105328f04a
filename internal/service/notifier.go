package service

import (
	"context"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/events"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/metrics"
	"pamoja-backend/internal/repository"
)

// Outcome describes an applied decision and what to tell its owner.
type Outcome struct {
	Entity  lifecycle.Entity
	Action  lifecycle.Action
	ID      int32
	OwnerID int32
	From    string
	To      string
	Actor   lifecycle.Actor
	Reason  string
	Title   string
	Message string
}

// Notifier fans an applied decision out to the log, metrics, the event stream,
// an in-app notification and an email. None of these can fail the decision.
type Notifier struct {
	userRepo  repository.UserRepository
	noteRepo  repository.NotificationRepository
	emailSvc  EmailService
	publisher events.Publisher
}

func NewNotifier(userRepo repository.UserRepository, noteRepo repository.NotificationRepository, emailSvc EmailService, publisher events.Publisher) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{userRepo: userRepo, noteRepo: noteRepo, emailSvc: emailSvc, publisher: publisher}
}

func (n *Notifier) Applied(ctx context.Context, o Outcome) {
	logger.Decision(string(o.Entity), string(o.Action), o.ID, o.From, o.To, o.Actor.UserID)
	metrics.RecordDecision(string(o.Entity), string(o.Action), metrics.OutcomeApplied)

	if o.Action != lifecycle.ActionReject && o.Action != lifecycle.ActionDeactivate {
		o.Reason = ""
	}
	if err := n.publisher.Publish(ctx, events.Decision{
		Entity:     string(o.Entity),
		EntityID:   o.ID,
		Action:     string(o.Action),
		From:       o.From,
		To:         o.To,
		OwnerID:    o.OwnerID,
		ActorID:    o.Actor.UserID,
		Reason:     o.Reason,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		logger.Warn("Failed to publish lifecycle event", "entity", o.Entity, "id", o.ID, "error", err)
	}

	if o.OwnerID == 0 || o.Title == "" || o.OwnerID == o.Actor.UserID {
		return
	}
	n.Notify(ctx, o.OwnerID, o.Title, o.Message, map[string]string{
		"type":      fmt.Sprintf("%s_%s", o.Entity, o.Action),
		"entity_id": fmt.Sprintf("%d", o.ID),
		"status":    o.To,
	}, true)
}

// Notify creates an in-app notification for userID and optionally emails the same text.
func (n *Notifier) Notify(ctx context.Context, userID int32, title, message string, attrs map[string]string, email bool) {
	notif := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, notif); err != nil {
		logger.Warn("Failed to create notification", "userID", userID, "error", err)
	}
	if !email {
		return
	}

	owner, err := n.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load notification recipient", "userID", userID, "error", err)
		return
	}
	if err := n.emailSvc.SendDecisionNotification(ctx, owner.Email, owner.FullName(), title, message); err != nil {
		logger.Warn("Failed to send decision email", "userID", userID, "error", err)
	}
}

// check runs the payload guard and the transition table for action on r.
func check(entity lifecycle.Entity, r domain.Reviewable, action lifecycle.Action, actor lifecycle.Actor, p lifecycle.Payload) (string, error) {
	if err := lifecycle.CheckPayload(entity, action, p); err != nil {
		return "", refused(entity, action, err)
	}
	next, err := lifecycle.Transition(entity, r.CurrentStatus(), action, actor, r.OwnerID())
	if err != nil {
		return "", refused(entity, action, err)
	}
	return next, nil
}

// refused counts a decision that did not apply and returns err unchanged.
func refused(entity lifecycle.Entity, action lifecycle.Action, err error) error {
	outcome := metrics.OutcomeFailed
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindForbidden, domain.KindInvalidTransition:
		outcome = metrics.OutcomeRejected
	}
	metrics.RecordDecision(string(entity), string(action), outcome)
	return err
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
