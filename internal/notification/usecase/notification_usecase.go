package usecase

import (
	"context"
	"errors"

	"localmart-backend/internal/notification/domain"
	"localmart-backend/internal/notification/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

// backlogLimit bounds the list returned by Backlog. The unread count is
// always computed over the full backlog regardless of this bound.
const backlogLimit = 100

// Backlog is the authoritative inbox view: the most recent notifications
// plus the unread count over everything.
type Backlog struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// NotificationUsecase exposes the backlog and device-token operations,
// all scoped to the acting user.
type NotificationUsecase interface {
	Backlog(ctx context.Context, userID string) (*Backlog, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
	ClearAll(ctx context.Context, userID string) error
	RegisterToken(ctx context.Context, userID, token, provider, deviceInfo string) error
	UnregisterToken(ctx context.Context, userID, token string) error
}

type notificationUsecase struct {
	notifRepo repository.NotificationRepository
	tokenRepo repository.DeviceTokenRepository
}

func NewNotificationUsecase(notifRepo repository.NotificationRepository, tokenRepo repository.DeviceTokenRepository) NotificationUsecase {
	return &notificationUsecase{
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
	}
}

func (u *notificationUsecase) Backlog(ctx context.Context, userID string) (*Backlog, error) {
	notifications, err := u.notifRepo.ListByUser(ctx, userID, backlogLimit)
	if err != nil {
		return nil, err
	}

	count, err := u.notifRepo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}

	return &Backlog{
		Notifications: notifications,
		UnreadCount:   count,
	}, nil
}

func (u *notificationUsecase) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	found, err := u.notifRepo.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) MarkAllAsRead(ctx context.Context, userID string) error {
	return u.notifRepo.MarkAllAsRead(ctx, userID)
}

func (u *notificationUsecase) Delete(ctx context.Context, userID, notificationID string) error {
	found, err := u.notifRepo.Delete(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) ClearAll(ctx context.Context, userID string) error {
	return u.notifRepo.DeleteAll(ctx, userID)
}

func (u *notificationUsecase) RegisterToken(ctx context.Context, userID, token, provider, deviceInfo string) error {
	if provider == "" {
		provider = "fcm"
	}
	return u.tokenRepo.SaveToken(ctx, userID, token, provider, deviceInfo)
}

// UnregisterToken removes the given token for the user, or every token the
// user has when none is named. Scoping to the caller's own token keeps a
// sign-out on one device from muting the user's other devices.
func (u *notificationUsecase) UnregisterToken(ctx context.Context, userID, token string) error {
	if token == "" {
		return u.tokenRepo.DeleteTokensByUserID(ctx, userID)
	}
	return u.tokenRepo.DeleteToken(ctx, userID, token)
}
