package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// TaskFilter narrows task queries. AssignedTo is set-containment: every id
// listed must be present on the task. InTrash selects the soft-deleted
// partition; the default is visible tasks only.
type TaskFilter struct {
	AssignedTo []string
	CreatedBy  string
	Status     string
	InTrash    bool
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, filter TaskFilter) (int, error)
}
