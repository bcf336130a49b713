package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// UseCase serves the notification inbox: listing, read tracking and
// deletion. The store performs no authorization, so the actor checks for
// bulk deletion live here.
type UseCase struct {
	notifications repository.NotificationRepository
	tasks         repository.TaskRepository
	messages      repository.MessageRepository
	unread        repository.UnreadCounterRepository
	logger        *zap.Logger
}

func New(
	notifications repository.NotificationRepository,
	tasks repository.TaskRepository,
	messages repository.MessageRepository,
	unread repository.UnreadCounterRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		notifications: notifications,
		tasks:         tasks,
		messages:      messages,
		unread:        unread,
		logger:        logger,
	}
}

// Add creates a notification directly. The related task or message, when
// referenced, must exist; at most one back-reference may be set.
func (uc *UseCase) Add(ctx context.Context, actor domain.Actor, draft *domain.Notification) (*domain.Notification, error) {
	if draft == nil || len(draft.AssignedTo) != 1 || draft.AssignedTo[0] == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "assigned_to must hold exactly one recipient")
	}
	if draft.RelatedTask != "" && draft.RelatedMessage != "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "at most one related entity may be set")
	}

	switch {
	case draft.RelatedTask != "":
		if _, err := uc.tasks.GetByID(ctx, draft.RelatedTask); err != nil {
			return nil, err
		}
	case draft.RelatedMessage != "":
		if _, err := uc.messages.GetByID(ctx, draft.RelatedMessage); err != nil {
			return nil, err
		}
	}

	draft.CreatedBy = actor.ID
	if err := uc.notifications.CreateMany(ctx, []domain.Notification{*draft}); err != nil {
		return nil, err
	}
	uc.addUnread(ctx, draft.AssignedTo[0], 1)
	return draft, nil
}

// ListForUser returns the user's notifications, newest first.
func (uc *UseCase) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return uc.notifications.ListByRecipient(ctx, userID)
}

// MarkRead flips the read flag and returns the updated record.
func (uc *UseCase) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	before, err := uc.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := uc.notifications.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if !before.IsRead {
		uc.addUnread(ctx, updated.Recipient(), -1)
	}
	return updated, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.notifications.Delete(ctx, id)
}

// DeleteAllFor removes every notification assigned to the user. Only the
// user themselves or an admin may do this.
func (uc *UseCase) DeleteAllFor(ctx context.Context, actor domain.Actor, userID string) (int, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return 0, domain.NewError(domain.ErrCodeForbidden, "you are not authorized to delete these notifications")
	}

	count, err := uc.notifications.DeleteAllFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	uc.resetUnread(ctx, userID)
	return count, nil
}

// UnreadCount serves the badge counter from the Redis cache, recounting
// from the store on a miss.
func (uc *UseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	if uc.unread != nil {
		if count, ok, err := uc.unread.Get(ctx, userID); err == nil && ok {
			return count, nil
		} else if err != nil {
			uc.logger.Warn("unread counter read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	count, err := uc.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if uc.unread != nil {
		if err := uc.unread.Set(ctx, userID, count); err != nil {
			uc.logger.Warn("unread counter refresh failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}

func (uc *UseCase) addUnread(ctx context.Context, userID string, delta int) {
	if uc.unread == nil || userID == "" {
		return
	}
	if err := uc.unread.Add(ctx, userID, delta); err != nil {
		uc.logger.Warn("unread counter update failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (uc *UseCase) resetUnread(ctx context.Context, userID string) {
	if uc.unread == nil {
		return
	}
	if err := uc.unread.Reset(ctx, userID); err != nil {
		uc.logger.Warn("unread counter reset failed", zap.String("user_id", userID), zap.Error(err))
	}
}
