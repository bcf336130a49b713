package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// MessageRepository persists direct messages and their conversations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	// ListBetween returns all non-deleted messages exchanged between the two
	// users, oldest first.
	ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	// ListReceived returns non-deleted messages received by the user, newest
	// first.
	ListReceived(ctx context.Context, userID string) ([]domain.Message, error)
	// MarkReadFrom marks every unread message from sender to receiver as read.
	MarkReadFrom(ctx context.Context, sender, receiver string) error
	// UpsertConversation finds or creates the conversation for the participant
	// pair and points it at the given last message.
	UpsertConversation(ctx context.Context, participants []string, lastMessageID string) (*domain.Conversation, error)
}
