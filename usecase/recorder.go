package usecase

import "context"

const (
	EntityTask         = "task"
	EntityNotification = "notification"
	EntityMessage      = "message"

	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationTrash   = "trash"
	OperationRestore = "restore"
	OperationPurge   = "purge"
	OperationSend    = "send"
)

// ActivityEntry describes one lifecycle transition for the local journal.
type ActivityEntry struct {
	Entity    string
	Operation string
	ActorID   string
	TargetID  string
	Detail    string
}

// ActivityRecorder abstracts the journal so use cases stay storage-agnostic.
// Recording is diagnostics only; failures are logged by callers and never
// affect the operation outcome.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}
