package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttlSeconds int) error
}

// UnreadCounterRepository keeps a cheap per-user unread-notification
// counter. Best-effort cache: a miss is answered by recounting from the
// notification store.
type UnreadCounterRepository interface {
	Add(ctx context.Context, userID string, delta int) error
	Set(ctx context.Context, userID string, value int) error
	Get(ctx context.Context, userID string) (int, bool, error)
	Reset(ctx context.Context, userID string) error
}
