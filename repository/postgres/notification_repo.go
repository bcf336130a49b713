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

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, assigned_to, message, type, related_task, related_message, created_by, is_read, created_at`

func (r *notificationRepository) CreateMany(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	const query = `
	INSERT INTO notifications (id, assigned_to, message, type, related_task, related_message, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i := range notifications {
		n := &notifications[i]
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		batch.Queue(query,
			n.ID,
			textArray(n.AssignedTo),
			n.Message,
			string(n.Type),
			nullString(n.RelatedTask),
			nullString(n.RelatedMessage),
			n.CreatedBy,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.pool.QueryRow(ctx, query, id))
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `
	SELECT ` + notificationColumns + `
	FROM notifications
	WHERE assigned_to @> ARRAY[$1]::text[]
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM notifications
	WHERE assigned_to @> ARRAY[$1]::text[] AND is_read = FALSE
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	query := `
	UPDATE notifications
	SET is_read = TRUE
	WHERE id = $1
	RETURNING ` + notificationColumns
	return scanNotification(r.pool.QueryRow(ctx, query, id))
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notifications WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteAllFor(ctx context.Context, userID string) (int, error) {
	const query = `DELETE FROM notifications WHERE assigned_to @> ARRAY[$1]::text[]`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanNotification(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Notification, error) {
	var n domain.Notification
	var (
		notifType      string
		relatedTask    *string
		relatedMessage *string
	)

	if err := row.Scan(
		&n.ID,
		&n.AssignedTo,
		&n.Message,
		&notifType,
		&relatedTask,
		&relatedMessage,
		&n.CreatedBy,
		&n.IsRead,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	n.Type = domain.NotificationType(notifType)
	if relatedTask != nil {
		n.RelatedTask = *relatedTask
	}
	if relatedMessage != nil {
		n.RelatedMessage = *relatedMessage
	}
	return &n, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
