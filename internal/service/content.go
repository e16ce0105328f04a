package service

import (
	"context"
	"fmt"
	"strings"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

type contentService struct {
	announceRepo repository.AnnouncementRepository
	meetingRepo  repository.MeetingRepository
	notifier     *Notifier
}

func NewContentService(announceRepo repository.AnnouncementRepository, meetingRepo repository.MeetingRepository, notifier *Notifier) ContentService {
	return &contentService{announceRepo: announceRepo, meetingRepo: meetingRepo, notifier: notifier}
}

func requireStaff(actor lifecycle.Actor, what string) error {
	if !actor.IsStaff {
		return domain.NewError(domain.ErrForbidden, "only administrators can %s", what)
	}
	return nil
}

func validAnnouncement(a *domain.Announcement) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
	if a.Title == "" || a.Content == "" {
		return domain.Validationf("title and content are required")
	}
	switch a.Priority {
	case "":
		a.Priority = domain.PriorityNormal
	case domain.PriorityLow, domain.PriorityNormal, domain.PriorityHigh:
	default:
		return domain.Validationf("unknown priority %q", a.Priority)
	}
	return nil
}

func (s *contentService) ListAnnouncements(ctx context.Context, limit int32) ([]domain.Announcement, error) {
	return s.announceRepo.List(ctx, limit)
}

func (s *contentService) CreateAnnouncement(ctx context.Context, actor lifecycle.Actor, a *domain.Announcement) (*domain.Announcement, error) {
	if err := requireStaff(actor, "publish announcements"); err != nil {
		return nil, err
	}
	if err := validAnnouncement(a); err != nil {
		return nil, err
	}
	a.CreatedBy = actor.UserID
	if err := s.announceRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	logger.Info("Announcement published", "announcementID", a.ID, "priority", a.Priority)
	return a, nil
}

func (s *contentService) UpdateAnnouncement(ctx context.Context, actor lifecycle.Actor, a *domain.Announcement) (*domain.Announcement, error) {
	if err := requireStaff(actor, "edit announcements"); err != nil {
		return nil, err
	}
	existing, err := s.announceRepo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if err := validAnnouncement(a); err != nil {
		return nil, err
	}
	existing.Title = a.Title
	existing.Content = a.Content
	existing.Priority = a.Priority
	if err := s.announceRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return existing, nil
}

func (s *contentService) DeleteAnnouncement(ctx context.Context, actor lifecycle.Actor, id int32) error {
	if err := requireStaff(actor, "delete announcements"); err != nil {
		return err
	}
	return s.announceRepo.Delete(ctx, id)
}

func validMeeting(m *domain.Meeting) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return domain.Validationf("a title is required")
	}
	if m.StartsAt.IsZero() {
		return domain.Validationf("a start time is required")
	}
	if m.MaxAttendees < 0 {
		return domain.Validationf("max attendees cannot be negative")
	}
	return nil
}

func (s *contentService) ListMeetings(ctx context.Context, limit int32) ([]domain.Meeting, error) {
	return s.meetingRepo.ListUpcoming(ctx, limit)
}

func (s *contentService) GetMeeting(ctx context.Context, id int32) (*domain.Meeting, error) {
	return s.meetingRepo.GetByID(ctx, id)
}

func (s *contentService) CreateMeeting(ctx context.Context, actor lifecycle.Actor, m *domain.Meeting) (*domain.Meeting, error) {
	if err := requireStaff(actor, "schedule meetings"); err != nil {
		return nil, err
	}
	if err := validMeeting(m); err != nil {
		return nil, err
	}
	m.CreatedBy = actor.UserID
	m.Registered = 0
	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	logger.Info("Meeting scheduled", "meetingID", m.ID, "startsAt", m.StartsAt)
	return m, nil
}

func (s *contentService) UpdateMeeting(ctx context.Context, actor lifecycle.Actor, m *domain.Meeting) (*domain.Meeting, error) {
	if err := requireStaff(actor, "edit meetings"); err != nil {
		return nil, err
	}
	existing, err := s.meetingRepo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	if err := validMeeting(m); err != nil {
		return nil, err
	}
	if m.MaxAttendees > 0 && m.MaxAttendees < existing.Registered {
		return nil, domain.Validationf("%d members are already registered", existing.Registered)
	}
	existing.Title = m.Title
	existing.Description = m.Description
	existing.Location = m.Location
	existing.StartsAt = m.StartsAt
	existing.MaxAttendees = m.MaxAttendees
	if err := s.meetingRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return existing, nil
}

func (s *contentService) DeleteMeeting(ctx context.Context, actor lifecycle.Actor, id int32) error {
	if err := requireStaff(actor, "delete meetings"); err != nil {
		return err
	}
	return s.meetingRepo.Delete(ctx, id)
}

// Register signs the actor up for a meeting. Full meetings and repeat registrations are refused.
func (s *contentService) Register(ctx context.Context, actor lifecycle.Actor, meetingID int32) (*domain.MeetingRegistration, error) {
	m, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	reg, err := s.meetingRepo.Register(ctx, meetingID, actor.UserID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, actor.UserID, "Meeting registration confirmed",
		fmt.Sprintf("You are registered for %q on %s.", m.Title, m.StartsAt.Format("Mon 2 Jan 2006 15:04 MST")),
		map[string]string{"type": "meeting_registration", "meeting_id": fmt.Sprintf("%d", m.ID)}, false)
	return reg, nil
}

func (s *contentService) ListRegistrations(ctx context.Context, meetingID int32) ([]domain.MeetingRegistration, error) {
	if _, err := s.meetingRepo.GetByID(ctx, meetingID); err != nil {
		return nil, err
	}
	return s.meetingRepo.ListRegistrations(ctx, meetingID)
}
