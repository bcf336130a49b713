package domain

import "time"

// Task statuses are an open string set; these are the values the lifecycle
// engine reacts to.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in progress"
	StatusDone       = "done"
)

// Task represents a collaborative work item assigned to one or more users.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  []string   `json:"assigned_to"`
	CreatedBy   string     `json:"created_by"`
	Status      string     `json:"status"`
	IsDeleted   bool       `json:"is_deleted"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) IsTrashed() bool {
	return t != nil && t.IsDeleted
}

// HasAssignee reports whether the given user id is in the assignment list.
func (t *Task) HasAssignee(userID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// MoveToTrash marks the task trashed. Together with Restore it is the only
// place the isDeleted/deletedAt pair changes, so the two fields stay in
// lockstep.
func (t *Task) MoveToTrash(now time.Time) {
	if t == nil {
		return
	}
	t.IsDeleted = true
	t.DeletedAt = &now
}

// Restore reverses MoveToTrash, clearing both soft-delete fields together.
func (t *Task) Restore() {
	if t == nil {
		return
	}
	t.IsDeleted = false
	t.DeletedAt = nil
}
