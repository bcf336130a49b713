package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, sender, receiver, content, is_read, is_deleted, created_at`

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if message == nil {
		return nil, domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, sender, receiver, content)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.Sender,
		message.Receiver,
		message.Content,
	).Scan(&message.CreatedAt); err != nil {
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	return scanMessage(r.pool.QueryRow(ctx, query, id))
}

func (r *messageRepository) ListBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	query := `
	SELECT ` + messageColumns + `
	FROM messages
	WHERE is_deleted = FALSE
	  AND ((sender = $1 AND receiver = $2) OR (sender = $2 AND receiver = $1))
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *messageRepository) ListReceived(ctx context.Context, userID string) ([]domain.Message, error) {
	query := `
	SELECT ` + messageColumns + `
	FROM messages
	WHERE is_deleted = FALSE AND receiver = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMessages(rows)
}

func (r *messageRepository) MarkReadFrom(ctx context.Context, sender, receiver string) error {
	const query = `
	UPDATE messages
	SET is_read = TRUE
	WHERE sender = $1 AND receiver = $2 AND is_read = FALSE
	`
	_, err := r.pool.Exec(ctx, query, sender, receiver)
	return err
}

func (r *messageRepository) UpsertConversation(ctx context.Context, participants []string, lastMessageID string) (*domain.Conversation, error) {
	const query = `
	INSERT INTO conversations (id, participants, last_message)
	VALUES ($1, $2, $3)
	ON CONFLICT (participants) DO UPDATE
	SET last_message = EXCLUDED.last_message,
		updated_at = NOW()
	RETURNING id, participants, COALESCE(last_message, ''), is_deleted, created_at, updated_at
	`
	var conv domain.Conversation
	if err := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		textArray(participants),
		nullString(lastMessageID),
	).Scan(
		&conv.ID,
		&conv.Participants,
		&conv.LastMessage,
		&conv.IsDeleted,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &conv, nil
}

func scanMessage(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Message, error) {
	var m domain.Message
	if err := row.Scan(
		&m.ID,
		&m.Sender,
		&m.Receiver,
		&m.Content,
		&m.IsRead,
		&m.IsDeleted,
		&m.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}
