package domain

import "time"

// NotificationType classifies what event produced a notification.
type NotificationType string

const (
	NotificationTaskCreated     NotificationType = "task_created"
	NotificationTaskUpdated     NotificationType = "task_updated"
	NotificationTaskTrashed     NotificationType = "task_trashed"
	NotificationTaskRestored    NotificationType = "task_restored"
	NotificationTaskDeleted     NotificationType = "task_deleted"
	NotificationMessageReceived NotificationType = "message_received"
)

// Notification is a single-recipient record produced by a task or inbox
// mutation. AssignedTo always holds exactly one user id; fan-out creates
// one record per recipient rather than batching recipients into one row.
type Notification struct {
	ID             string           `json:"id"`
	AssignedTo     []string         `json:"assigned_to"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	RelatedTask    string           `json:"related_task,omitempty"`
	RelatedMessage string           `json:"related_message,omitempty"`
	CreatedBy      string           `json:"created_by"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Recipient returns the single recipient of the record, or "" when the
// record is malformed.
func (n *Notification) Recipient() string {
	if n == nil || len(n.AssignedTo) != 1 {
		return ""
	}
	return n.AssignedTo[0]
}
