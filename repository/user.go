package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// UserRepository is the user directory. GetManyByIDs silently omits ids
// that resolve to nothing.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetManyByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	FindByRole(ctx context.Context, role string) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
