package service

import (
	"context"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	limit = domain.ListFilter{Limit: limit}.PageSize()
	if offset < 0 {
		offset = 0
	}
	return s.noteRepo.List(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}
