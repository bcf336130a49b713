package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
	"github.com/taskhive/backend/usecase/notify"
)

const trashPageSize = 100

// Patch carries the fields a general update may change. Nil pointers (and
// a nil AssignedTo slice) leave the current value untouched.
type Patch struct {
	Title       *string
	Description *string
	AssignedTo  []string
	Status      *string
}

// UseCase orchestrates the task lifecycle: create, update, trash, restore
// and purge, each followed by a best-effort notification fan-out once the
// primary mutation has been applied.
type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	resolver *notify.Resolver
	notifier notify.Dispatcher
	recorder usecase.ActivityRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	resolver *notify.Resolver,
	notifier notify.Dispatcher,
	recorder usecase.ActivityRecorder,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		users:    users,
		resolver: resolver,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (uc *UseCase) Create(ctx context.Context, actor domain.Actor, draft *domain.Task) (*domain.Task, error) {
	if draft == nil || strings.TrimSpace(draft.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if len(draft.AssignedTo) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "assigned_to must not be empty")
	}

	draft.CreatedBy = actor.ID
	draft.IsDeleted = false
	draft.DeletedAt = nil
	if draft.Status == "" {
		draft.Status = domain.StatusTodo
	}

	created, err := uc.tasks.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	uc.record(ctx, actor, usecase.OperationCreate, created.ID)
	uc.fanOutToAssignees(ctx, actor, created, domain.NotificationTaskCreated,
		fmt.Sprintf("New task assigned: %s", created.Title))
	return created, nil
}

// Get returns a single visible task. Trashed tasks are reported as gone,
// and viewing requires the actor to be an admin, an assignee or the creator.
func (uc *UseCase) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsTrashed() {
		return nil, domain.NewError(domain.ErrCodeNotFound, "this task has been deleted")
	}
	if !domain.CanViewTask(task, actor) {
		return nil, domain.ErrViewForbidden
	}
	return task, nil
}

// List returns visible tasks matching the filter. An AssignedTo filter is
// set-containment: every listed id must be assigned.
func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	filter.InTrash = false
	return uc.tasks.List(ctx, filter)
}

// ListForUser returns visible tasks the user is assigned to.
func (uc *UseCase) ListForUser(ctx context.Context, userID string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{AssignedTo: []string{userID}})
}

func (uc *UseCase) Update(ctx context.Context, actor domain.Actor, id string, patch Patch) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.AssignedTo != nil {
		task.AssignedTo = patch.AssignedTo
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.record(ctx, actor, usecase.OperationUpdate, task.ID)
	uc.fanOutToAssignees(ctx, actor, task, domain.NotificationTaskUpdated,
		fmt.Sprintf("Task updated: %s", task.Title))
	return task, nil
}

// UpdateStatus sets only the status field. The actor must be assigned to
// the task or be an admin. Admins are notified when a task first moves to
// "in progress"; no other status change produces a notification.
func (uc *UseCase) UpdateStatus(ctx context.Context, actor domain.Actor, id, status string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutateTaskStatus(task, actor) {
		return nil, domain.ErrNotAssigned
	}

	oldStatus := task.Status
	task.Status = status
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.record(ctx, actor, usecase.OperationUpdate, task.ID)
	if status == domain.StatusInProgress && oldStatus != domain.StatusInProgress {
		uc.notifyAdminsOfProgress(ctx, actor, task)
	}
	return task, nil
}

func (uc *UseCase) MoveToTrash(ctx context.Context, actor domain.Actor, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.IsTrashed() {
		return domain.ErrTaskAlreadyTrashed
	}

	task.MoveToTrash(uc.now())
	if err := uc.tasks.Update(ctx, task); err != nil {
		return err
	}

	uc.record(ctx, actor, usecase.OperationTrash, task.ID)
	uc.fanOutToAssignees(ctx, actor, task, domain.NotificationTaskTrashed,
		fmt.Sprintf("Task moved to trash: %s", task.Title))
	return nil
}

func (uc *UseCase) Restore(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsTrashed() {
		return nil, domain.ErrTaskNotTrashed
	}

	task.Restore()
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.record(ctx, actor, usecase.OperationRestore, task.ID)
	uc.fanOutToAssignees(ctx, actor, task, domain.NotificationTaskRestored,
		fmt.Sprintf("Task restored from trash: %s", task.Title))
	return task, nil
}

// GetTrash lists the actor's own trashed tasks. Trash is scoped to the
// creator; being assigned to someone else's trashed task grants nothing.
func (uc *UseCase) GetTrash(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{
		InTrash:   true,
		CreatedBy: actor.ID,
	})
}

// DeleteFromTrash permanently removes one trashed task. Only the creator
// may purge; admins get no override. No notification is emitted.
func (uc *UseCase) DeleteFromTrash(ctx context.Context, actor domain.Actor, id string) error {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !task.IsTrashed() {
		return domain.ErrTaskNotTrashed
	}
	if !domain.CanPurgeTask(task, actor) {
		return domain.ErrForbidden
	}

	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.record(ctx, actor, usecase.OperationPurge, id)
	return nil
}

// EmptyTrash permanently removes every trashed task created by the actor
// and notifies the eligible assignees of each, one record per (task,
// recipient) pair. Recipient roles are resolved with a single batched
// directory lookup across the whole batch.
func (uc *UseCase) EmptyTrash(ctx context.Context, actor domain.Actor) (int, error) {
	filter := repository.TaskFilter{InTrash: true, CreatedBy: actor.ID}

	var trashed []domain.Task
	for offset := 0; ; offset += trashPageSize {
		page, err := uc.tasks.List(ctx, repository.TaskFilter{
			InTrash:   true,
			CreatedBy: actor.ID,
			Limit:     trashPageSize,
			Offset:    offset,
		})
		if err != nil {
			return 0, err
		}
		trashed = append(trashed, page...)
		if len(page) < trashPageSize {
			break
		}
	}

	drafts := uc.purgeDrafts(ctx, actor, trashed)

	count, err := uc.tasks.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}

	uc.record(ctx, actor, usecase.OperationPurge, "")
	if uc.notifier != nil && len(drafts) > 0 {
		uc.notifier.Dispatch(ctx, drafts)
	}
	return count, nil
}

// purgeDrafts builds one task_deleted draft per (task, eligible recipient)
// pair before the batch delete runs, so recipients are computed from state
// that still exists.
func (uc *UseCase) purgeDrafts(ctx context.Context, actor domain.Actor, trashed []domain.Task) []notify.Draft {
	if len(trashed) == 0 || uc.resolver == nil {
		return nil
	}

	var candidates []string
	for i := range trashed {
		candidates = append(candidates, trashed[i].AssignedTo...)
	}

	eligible, err := uc.resolver.Eligible(ctx, candidates)
	if err != nil {
		uc.logger.Error("recipient resolution failed for trash purge", zap.Error(err))
		return nil
	}
	eligibleSet := make(map[string]struct{}, len(eligible))
	for _, id := range eligible {
		eligibleSet[id] = struct{}{}
	}

	var drafts []notify.Draft
	for i := range trashed {
		t := &trashed[i]
		for _, assignee := range t.AssignedTo {
			if _, ok := eligibleSet[assignee]; !ok {
				continue
			}
			drafts = append(drafts, notify.Draft{
				Recipient:   assignee,
				Message:     fmt.Sprintf("Task permanently deleted: %s", t.Title),
				Type:        domain.NotificationTaskDeleted,
				RelatedTask: t.ID,
				CreatedBy:   actor.ID,
			})
		}
	}
	return drafts
}

// fanOutToAssignees resolves the task's assignees through the admin
// exclusion filter and dispatches one draft per eligible recipient. The
// primary mutation has already been applied; every failure here is logged
// and dropped.
func (uc *UseCase) fanOutToAssignees(ctx context.Context, actor domain.Actor, task *domain.Task, typ domain.NotificationType, message string) {
	if uc.notifier == nil || uc.resolver == nil || len(task.AssignedTo) == 0 {
		return
	}

	recipients, err := uc.resolver.Eligible(ctx, task.AssignedTo)
	if err != nil {
		uc.logger.Error("recipient resolution failed",
			zap.String("task_id", task.ID), zap.String("type", string(typ)), zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	drafts := make([]notify.Draft, 0, len(recipients))
	for _, recipient := range recipients {
		drafts = append(drafts, notify.Draft{
			Recipient:   recipient,
			Message:     message,
			Type:        typ,
			RelatedTask: task.ID,
			CreatedBy:   actor.ID,
		})
	}
	uc.notifier.Dispatch(ctx, drafts)
}

// notifyAdminsOfProgress tells every admin that work started on a task.
// This audience is intentionally unfiltered: admins are the recipients.
func (uc *UseCase) notifyAdminsOfProgress(ctx context.Context, actor domain.Actor, task *domain.Task) {
	if uc.notifier == nil || uc.resolver == nil {
		return
	}

	admins, err := uc.resolver.Admins(ctx)
	if err != nil {
		uc.logger.Error("admin lookup failed for progress notification",
			zap.String("task_id", task.ID), zap.Error(err))
		return
	}
	if len(admins) == 0 {
		return
	}

	actorName := actor.ID
	if user, err := uc.users.GetByID(ctx, actor.ID); err == nil && user.Name != "" {
		actorName = user.Name
	}

	drafts := make([]notify.Draft, 0, len(admins))
	for _, admin := range admins {
		drafts = append(drafts, notify.Draft{
			Recipient:   admin,
			Message:     fmt.Sprintf("%s started working on task: %s", actorName, task.Title),
			Type:        domain.NotificationTaskUpdated,
			RelatedTask: task.ID,
			CreatedBy:   actor.ID,
		})
	}
	uc.notifier.Dispatch(ctx, drafts)
}

func (uc *UseCase) record(ctx context.Context, actor domain.Actor, operation, targetID string) {
	if uc.recorder == nil {
		return
	}
	entry := usecase.ActivityEntry{
		Entity:    usecase.EntityTask,
		Operation: operation,
		ActorID:   actor.ID,
		TargetID:  targetID,
	}
	if err := uc.recorder.Record(ctx, entry); err != nil {
		uc.logger.Warn("activity journal write failed",
			zap.String("operation", operation), zap.Error(err))
	}
}
