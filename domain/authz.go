package domain

// Authorization predicates for task operations. All of them are pure
// checks against already-loaded state.

// CanViewTask allows admins, assignees and the creator.
func CanViewTask(task *Task, actor Actor) bool {
	if task == nil {
		return false
	}
	return actor.IsAdmin() || task.HasAssignee(actor.ID) || task.CreatedBy == actor.ID
}

// CanMutateTaskStatus allows admins and assignees.
func CanMutateTaskStatus(task *Task, actor Actor) bool {
	if task == nil {
		return false
	}
	return actor.IsAdmin() || task.HasAssignee(actor.ID)
}

// CanPurgeTask allows only the creator. Admins get no override here: the
// trash is scoped to whoever created the task.
func CanPurgeTask(task *Task, actor Actor) bool {
	return task != nil && task.CreatedBy == actor.ID
}
