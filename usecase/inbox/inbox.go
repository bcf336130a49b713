package inbox

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
	"github.com/taskhive/backend/usecase/notify"
)

// Conversation is the view returned when opening a thread with another
// user.
type Conversation struct {
	Messages  []domain.Message `json:"messages"`
	OtherUser *domain.User     `json:"other_user"`
}

// UseCase implements direct messaging. It shares the notification fan-out
// contract with the task lifecycle: a sent message produces one
// message_received record for the receiver, dispatched after the message
// is stored.
type UseCase struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	notifier notify.Dispatcher
	recorder usecase.ActivityRecorder
	logger   *zap.Logger
}

func New(
	messages repository.MessageRepository,
	users repository.UserRepository,
	notifier notify.Dispatcher,
	recorder usecase.ActivityRecorder,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		messages: messages,
		users:    users,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
	}
}

// Send stores a message to the receiver, updates the conversation and
// notifies the receiver. Message notifications are not role-filtered:
// admins receive theirs like anyone else.
func (uc *UseCase) Send(ctx context.Context, actor domain.Actor, receiverID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "message content is required")
	}

	receiver, err := uc.users.GetByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	message, err := uc.messages.Create(ctx, &domain.Message{
		Sender:   actor.ID,
		Receiver: receiver.ID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.messages.UpsertConversation(ctx, domain.ConversationKey(actor.ID, receiver.ID), message.ID); err != nil {
		uc.logger.Error("conversation update failed",
			zap.String("message_id", message.ID), zap.Error(err))
	}

	if uc.recorder != nil {
		entry := usecase.ActivityEntry{
			Entity:    usecase.EntityMessage,
			Operation: usecase.OperationSend,
			ActorID:   actor.ID,
			TargetID:  message.ID,
		}
		if err := uc.recorder.Record(ctx, entry); err != nil {
			uc.logger.Warn("activity journal write failed", zap.Error(err))
		}
	}

	uc.notifyReceiver(ctx, actor, message)
	return message, nil
}

// Open returns the full thread with the other user, oldest first, and
// marks their unread messages to the actor as read.
func (uc *UseCase) Open(ctx context.Context, actor domain.Actor, otherUserID string) (*Conversation, error) {
	otherUser, err := uc.users.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messages.ListBetween(ctx, actor.ID, otherUserID)
	if err != nil {
		return nil, err
	}

	if err := uc.messages.MarkReadFrom(ctx, otherUserID, actor.ID); err != nil {
		uc.logger.Warn("failed to mark conversation read",
			zap.String("sender", otherUserID), zap.Error(err))
	}

	return &Conversation{Messages: messages, OtherUser: otherUser}, nil
}

// Senders returns every user who has messaged the actor, each carrying the
// most recent message received from them.
func (uc *UseCase) Senders(ctx context.Context, actor domain.Actor) ([]domain.SenderDigest, error) {
	received, err := uc.messages.ListReceived(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(received) == 0 {
		return nil, nil
	}

	order := make([]string, 0)
	latest := make(map[string]*domain.Message, len(received))
	for i := range received {
		senderID := received[i].Sender
		if _, ok := latest[senderID]; !ok {
			latest[senderID] = &received[i]
			order = append(order, senderID)
		}
	}

	users, err := uc.users.GetManyByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	digests := make([]domain.SenderDigest, 0, len(order))
	for _, senderID := range order {
		digest := domain.SenderDigest{
			UserID:      senderID,
			LastMessage: latest[senderID],
		}
		if user, ok := byID[senderID]; ok {
			digest.Name = user.Name
			digest.Email = user.Email
		}
		digests = append(digests, digest)
	}
	return digests, nil
}

func (uc *UseCase) notifyReceiver(ctx context.Context, actor domain.Actor, message *domain.Message) {
	if uc.notifier == nil {
		return
	}

	senderName := actor.ID
	if sender, err := uc.users.GetByID(ctx, actor.ID); err == nil && sender.Name != "" {
		senderName = sender.Name
	}

	uc.notifier.Dispatch(ctx, []notify.Draft{{
		Recipient:      message.Receiver,
		Message:        fmt.Sprintf("New message from %s", senderName),
		Type:           domain.NotificationMessageReceived,
		RelatedMessage: message.ID,
		CreatedBy:      actor.ID,
	}})
}
