package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// NotificationRepository persists fan-out records. ListByRecipient returns
// newest first. MarkRead flips the read flag and returns the updated
// record. The store performs no authorization; callers own that.
type NotificationRepository interface {
	CreateMany(ctx context.Context, notifications []domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
	DeleteAllFor(ctx context.Context, userID string) (int, error)
}
