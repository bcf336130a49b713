package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// Draft is a pending notification computed by a lifecycle operation and
// handed to the dispatcher after the primary mutation has been applied.
type Draft struct {
	Recipient      string
	Message        string
	Type           domain.NotificationType
	RelatedTask    string
	RelatedMessage string
	CreatedBy      string
}

// Dispatcher runs the notification side channel. Implementations own
// failure isolation: a failed dispatch never fails the operation that
// produced the drafts.
type Dispatcher interface {
	Dispatch(ctx context.Context, drafts []Draft)
}

// Notifier persists drafts as single-recipient notification records and
// bumps the per-recipient unread counters. All failures are logged and
// swallowed; notifications are best-effort auxiliary state.
type Notifier struct {
	notifications repository.NotificationRepository
	unread        repository.UnreadCounterRepository
	logger        *zap.Logger
}

func NewNotifier(notifications repository.NotificationRepository, unread repository.UnreadCounterRepository, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		notifications: notifications,
		unread:        unread,
		logger:        logger,
	}
}

func (n *Notifier) Dispatch(ctx context.Context, drafts []Draft) {
	records := make([]domain.Notification, 0, len(drafts))
	for _, draft := range drafts {
		if draft.Recipient == "" {
			n.logger.Warn("dropping notification draft without recipient",
				zap.String("type", string(draft.Type)))
			continue
		}
		records = append(records, domain.Notification{
			AssignedTo:     []string{draft.Recipient},
			Message:        draft.Message,
			Type:           draft.Type,
			RelatedTask:    draft.RelatedTask,
			RelatedMessage: draft.RelatedMessage,
			CreatedBy:      draft.CreatedBy,
		})
	}
	if len(records) == 0 {
		return
	}

	if err := n.notifications.CreateMany(ctx, records); err != nil {
		n.logger.Error("notification fan-out failed",
			zap.Int("count", len(records)), zap.Error(err))
		return
	}

	n.bumpUnread(ctx, records)
}

func (n *Notifier) bumpUnread(ctx context.Context, records []domain.Notification) {
	if n.unread == nil {
		return
	}
	perRecipient := make(map[string]int, len(records))
	for i := range records {
		if recipient := records[i].Recipient(); recipient != "" {
			perRecipient[recipient]++
		}
	}
	for recipient, count := range perRecipient {
		if err := n.unread.Add(ctx, recipient, count); err != nil {
			n.logger.Warn("unread counter update failed",
				zap.String("user_id", recipient), zap.Error(err))
		}
	}
}

var _ Dispatcher = (*Notifier)(nil)
