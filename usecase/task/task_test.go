package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase/notify"
)

var (
	alice = domain.User{ID: "u1", Name: "Alice", Role: domain.RoleUser}
	bob   = domain.User{ID: "u2", Name: "Bob", Role: domain.RoleAdmin}
	carol = domain.User{ID: "u3", Name: "Carol", Role: domain.RoleUser}
	dave  = domain.User{ID: "u4", Name: "Dave", Role: domain.RoleAdmin}
)

func newEngine(users ...domain.User) (*fakeTaskRepo, *capturingDispatcher, *UseCase) {
	tasks := newFakeTaskRepo()
	directory := newFakeUserRepo(users...)
	dispatcher := &capturingDispatcher{}
	uc := newEngineWith(tasks, directory, dispatcher)
	return tasks, dispatcher, uc
}

func newEngineWith(tasks *fakeTaskRepo, directory *fakeUserRepo, dispatcher *capturingDispatcher) *UseCase {
	return New(tasks, directory, notify.NewResolver(directory), dispatcher, &fakeRecorder{}, nil)
}

func mustCreate(t *testing.T, uc *UseCase, actor domain.Actor, title string, assignees ...string) *domain.Task {
	t.Helper()
	created, err := uc.Create(context.Background(), actor, &domain.Task{
		Title:      title,
		AssignedTo: assignees,
	})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return created
}

func checkTrashPair(t *testing.T, task *domain.Task) {
	t.Helper()
	if task.IsDeleted && task.DeletedAt == nil {
		t.Fatalf("trashed task %s has no deleted_at", task.ID)
	}
	if !task.IsDeleted && task.DeletedAt != nil {
		t.Fatalf("visible task %s still has deleted_at", task.ID)
	}
}

func TestCreate_RequiresTitleAndAssignees(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}

	if _, err := uc.Create(context.Background(), actor, &domain.Task{AssignedTo: []string{"u1"}}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID for empty title, got %v", err)
	}
	if _, err := uc.Create(context.Background(), actor, &domain.Task{Title: "build"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID for empty assignees, got %v", err)
	}
}

func TestCreate_NotifiesOnlyNonAdminAssignees(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, bob, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}

	created := mustCreate(t, uc, actor, "prepare release", alice.ID, bob.ID)

	drafts := dispatcher.all()
	if len(drafts) != 1 {
		t.Fatalf("expected exactly 1 draft, got %d", len(drafts))
	}
	draft := drafts[0]
	if draft.Recipient != alice.ID {
		t.Fatalf("expected recipient %s, got %s", alice.ID, draft.Recipient)
	}
	if draft.Type != domain.NotificationTaskCreated {
		t.Fatalf("expected type %s, got %s", domain.NotificationTaskCreated, draft.Type)
	}
	if draft.RelatedTask != created.ID {
		t.Fatalf("expected related task %s, got %s", created.ID, draft.RelatedTask)
	}
	if created.CreatedBy != carol.ID {
		t.Fatalf("expected creator %s, got %s", carol.ID, created.CreatedBy)
	}
	checkTrashPair(t, created)
}

func TestGet_TrashedTaskIsGone(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "audit logs", alice.ID)

	if err := uc.MoveToTrash(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}

	if _, err := uc.Get(context.Background(), actor, created.ID); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND for trashed task, got %v", err)
	}
}

func TestGet_Authorization(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, bob, carol)
	creator := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, creator, "write docs", alice.ID)

	cases := []struct {
		name    string
		actor   domain.Actor
		allowed bool
	}{
		{"assignee", domain.Actor{ID: alice.ID, Role: domain.RoleUser}, true},
		{"creator", creator, true},
		{"admin", domain.Actor{ID: bob.ID, Role: domain.RoleAdmin}, true},
		{"stranger", domain.Actor{ID: "u99", Role: domain.RoleUser}, false},
	}
	for _, tc := range cases {
		_, err := uc.Get(context.Background(), tc.actor, created.ID)
		if tc.allowed && err != nil {
			t.Fatalf("%s: expected access, got %v", tc.name, err)
		}
		if !tc.allowed && !domain.IsDomainError(err, domain.ErrCodeForbidden) {
			t.Fatalf("%s: expected FORBIDDEN, got %v", tc.name, err)
		}
	}
}

func TestTrashRestoreRoundTripKeepsVisibleFields(t *testing.T) {
	t.Parallel()

	tasks, _, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "triage bugs", alice.ID)
	created.Description = "weekly sweep"
	if _, err := uc.Update(context.Background(), actor, created.ID, Patch{Description: &created.Description}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if err := uc.MoveToTrash(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}
	trashed, err := tasks.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("load after trash: %v", err)
	}
	checkTrashPair(t, trashed)
	if !trashed.IsDeleted {
		t.Fatalf("expected task to be trashed")
	}

	restored, err := uc.Restore(context.Background(), actor, created.ID)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	checkTrashPair(t, restored)

	if restored.Title != created.Title ||
		restored.Description != "weekly sweep" ||
		restored.Status != created.Status ||
		len(restored.AssignedTo) != len(created.AssignedTo) {
		t.Fatalf("visible fields changed across trash/restore: %+v", restored)
	}
}

func TestRestore_NotTrashed(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "plan sprint", alice.ID)

	before := len(dispatcher.all())
	if _, err := uc.Restore(context.Background(), actor, created.ID); !errors.Is(err, domain.ErrTaskNotTrashed) {
		t.Fatalf("expected ErrTaskNotTrashed, got %v", err)
	}
	if len(dispatcher.all()) != before {
		t.Fatalf("restore of a visible task must not notify")
	}
}

func TestMoveToTrash_AlreadyTrashed(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "retire service", alice.ID)

	if err := uc.MoveToTrash(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("first MoveToTrash returned error: %v", err)
	}
	if err := uc.MoveToTrash(context.Background(), actor, created.ID); !errors.Is(err, domain.ErrTaskAlreadyTrashed) {
		t.Fatalf("expected ErrTaskAlreadyTrashed, got %v", err)
	}
}

func TestMoveToTrash_NoFanOutWhenMutationFails(t *testing.T) {
	t.Parallel()

	tasks, dispatcher, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "rotate keys", alice.ID)
	before := len(dispatcher.all())

	tasks.failUpdate = errStoreDown
	if err := uc.MoveToTrash(context.Background(), actor, created.ID); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
	if len(dispatcher.all()) != before {
		t.Fatalf("fan-out must not run when the primary mutation fails")
	}
}

func TestDeleteFromTrash_NotTrashed(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "cleanup branches", alice.ID)

	if err := uc.DeleteFromTrash(context.Background(), actor, created.ID); !errors.Is(err, domain.ErrTaskNotTrashed) {
		t.Fatalf("expected ErrTaskNotTrashed, got %v", err)
	}
}

func TestDeleteFromTrash_CreatorOnly(t *testing.T) {
	t.Parallel()

	tasks, _, uc := newEngine(alice, bob, carol)
	creator := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, creator, "drop table", alice.ID)
	if err := uc.MoveToTrash(context.Background(), creator, created.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}

	admin := domain.Actor{ID: bob.ID, Role: domain.RoleAdmin}
	if err := uc.DeleteFromTrash(context.Background(), admin, created.ID); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN for admin purge, got %v", err)
	}

	if err := uc.DeleteFromTrash(context.Background(), creator, created.ID); err != nil {
		t.Fatalf("creator purge returned error: %v", err)
	}
	if _, err := tasks.GetByID(context.Background(), created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected task to be gone, got %v", err)
	}
}

func TestUpdateStatus_RequiresAssignment(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, bob, carol)
	creator := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, creator, "deploy", alice.ID)

	// The creator is not assigned, so even they may not flip the status.
	if _, err := uc.UpdateStatus(context.Background(), creator, created.ID, domain.StatusDone); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("expected FORBIDDEN for unassigned actor, got %v", err)
	}

	admin := domain.Actor{ID: bob.ID, Role: domain.RoleAdmin}
	if _, err := uc.UpdateStatus(context.Background(), admin, created.ID, domain.StatusDone); err != nil {
		t.Fatalf("admin status update returned error: %v", err)
	}
}

func TestUpdateStatus_NotifiesAdminsOnProgressStart(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, bob, carol, dave)
	creator := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, creator, "migrate database", alice.ID)
	baseline := len(dispatcher.all())

	assignee := domain.Actor{ID: alice.ID, Role: domain.RoleUser}
	if _, err := uc.UpdateStatus(context.Background(), assignee, created.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	drafts := dispatcher.all()[baseline:]
	if len(drafts) != 2 {
		t.Fatalf("expected 2 admin drafts, got %d", len(drafts))
	}
	admins := map[string]bool{}
	for _, draft := range drafts {
		if draft.Type != domain.NotificationTaskUpdated {
			t.Fatalf("expected type %s, got %s", domain.NotificationTaskUpdated, draft.Type)
		}
		admins[draft.Recipient] = true
	}
	if !admins[bob.ID] || !admins[dave.ID] {
		t.Fatalf("expected one draft per admin, got %v", admins)
	}

	// The task is already in progress; repeating the call stays silent.
	baseline = len(dispatcher.all())
	if _, err := uc.UpdateStatus(context.Background(), assignee, created.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("repeated UpdateStatus returned error: %v", err)
	}
	if extra := len(dispatcher.all()) - baseline; extra != 0 {
		t.Fatalf("expected no additional drafts, got %d", extra)
	}
}

func TestUpdateStatus_OtherTransitionsAreSilent(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, bob, carol)
	creator := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, creator, "review PR", alice.ID)
	baseline := len(dispatcher.all())

	assignee := domain.Actor{ID: alice.ID, Role: domain.RoleUser}
	if _, err := uc.UpdateStatus(context.Background(), assignee, created.ID, domain.StatusDone); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if extra := len(dispatcher.all()) - baseline; extra != 0 {
		t.Fatalf("todo->done must not notify, got %d drafts", extra)
	}
}

func TestGetTrash_ScopedToCreator(t *testing.T) {
	t.Parallel()

	_, _, uc := newEngine(alice, carol)
	carolActor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	aliceActor := domain.Actor{ID: alice.ID, Role: domain.RoleUser}

	// Carol trashes a task that Alice is assigned to.
	carols := mustCreate(t, uc, carolActor, "carol task", alice.ID)
	if err := uc.MoveToTrash(context.Background(), carolActor, carols.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}
	mine := mustCreate(t, uc, aliceActor, "alice task", alice.ID)
	if err := uc.MoveToTrash(context.Background(), aliceActor, mine.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}

	trash, err := uc.GetTrash(context.Background(), aliceActor)
	if err != nil {
		t.Fatalf("GetTrash returned error: %v", err)
	}
	if len(trash) != 1 || trash[0].ID != mine.ID {
		t.Fatalf("expected only alice's own trashed task, got %+v", trash)
	}
}

func TestEmptyTrash_OneDraftPerTaskRecipientPair(t *testing.T) {
	t.Parallel()

	tasks := newFakeTaskRepo()
	directory := newFakeUserRepo(alice, bob, carol)
	dispatcher := &capturingDispatcher{}
	uc := newEngineWith(tasks, directory, dispatcher)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}

	first := mustCreate(t, uc, actor, "first", alice.ID, bob.ID)
	second := mustCreate(t, uc, actor, "second", alice.ID, bob.ID)
	for _, id := range []string{first.ID, second.ID} {
		if err := uc.MoveToTrash(context.Background(), actor, id); err != nil {
			t.Fatalf("MoveToTrash returned error: %v", err)
		}
	}

	directory.mu.Lock()
	directory.batchCalls = 0
	directory.mu.Unlock()
	baseline := len(dispatcher.all())

	count, err := uc.EmptyTrash(context.Background(), actor)
	if err != nil {
		t.Fatalf("EmptyTrash returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deleted tasks, got %d", count)
	}

	drafts := dispatcher.all()[baseline:]
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts (one per task for the non-admin assignee), got %d", len(drafts))
	}
	related := map[string]bool{}
	for _, draft := range drafts {
		if draft.Recipient != alice.ID {
			t.Fatalf("admin %s must never be notified, got recipient %s", bob.ID, draft.Recipient)
		}
		if draft.Type != domain.NotificationTaskDeleted {
			t.Fatalf("expected type %s, got %s", domain.NotificationTaskDeleted, draft.Type)
		}
		related[draft.RelatedTask] = true
	}
	if !related[first.ID] || !related[second.ID] {
		t.Fatalf("expected one draft per purged task, got %v", related)
	}

	directory.mu.RLock()
	calls := directory.batchCalls
	directory.mu.RUnlock()
	if calls != 1 {
		t.Fatalf("expected a single batched directory lookup, got %d", calls)
	}

	remaining, err := tasks.List(context.Background(), repository.TaskFilter{InTrash: true, CreatedBy: actor.ID})
	if err != nil {
		t.Fatalf("listing trash after purge: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty trash, got %d tasks", len(remaining))
	}
}

func TestEmptyTrash_Empty(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}

	count, err := uc.EmptyTrash(context.Background(), actor)
	if err != nil {
		t.Fatalf("EmptyTrash returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 deletions, got %d", count)
	}
	if len(dispatcher.all()) != 0 {
		t.Fatalf("empty trash must not notify")
	}
}

func TestUpdate_MergesAndNotifiesEligibleAssignees(t *testing.T) {
	t.Parallel()

	_, dispatcher, uc := newEngine(alice, bob, carol)
	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "old title", alice.ID, bob.ID)
	baseline := len(dispatcher.all())

	title := "new title"
	updated, err := uc.Update(context.Background(), actor, created.ID, Patch{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}
	if updated.Description != created.Description || updated.Status != created.Status {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	drafts := dispatcher.all()[baseline:]
	if len(drafts) != 1 || drafts[0].Recipient != alice.ID || drafts[0].Type != domain.NotificationTaskUpdated {
		t.Fatalf("expected one task_updated draft for %s, got %+v", alice.ID, drafts)
	}
}

func TestDeletedAtIsSetToTrashTime(t *testing.T) {
	t.Parallel()

	tasks, _, uc := newEngine(alice, carol)
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return frozen }

	actor := domain.Actor{ID: carol.ID, Role: domain.RoleUser}
	created := mustCreate(t, uc, actor, "timed", alice.ID)
	if err := uc.MoveToTrash(context.Background(), actor, created.ID); err != nil {
		t.Fatalf("MoveToTrash returned error: %v", err)
	}

	trashed, err := tasks.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("load after trash: %v", err)
	}
	if trashed.DeletedAt == nil || !trashed.DeletedAt.Equal(frozen) {
		t.Fatalf("expected deleted_at %v, got %v", frozen, trashed.DeletedAt)
	}
}
