package domain

import (
	"testing"
	"time"
)

func TestTrashPairStaysInLockstep(t *testing.T) {
	t.Parallel()

	task := &Task{ID: "t1", Title: "one"}
	if task.IsDeleted || task.DeletedAt != nil {
		t.Fatalf("fresh task must be visible with no deleted_at")
	}

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	task.MoveToTrash(now)
	if !task.IsDeleted {
		t.Fatalf("expected task to be trashed")
	}
	if task.DeletedAt == nil || !task.DeletedAt.Equal(now) {
		t.Fatalf("expected deleted_at %v, got %v", now, task.DeletedAt)
	}

	task.Restore()
	if task.IsDeleted {
		t.Fatalf("expected task to be visible after restore")
	}
	if task.DeletedAt != nil {
		t.Fatalf("expected deleted_at cleared after restore, got %v", task.DeletedAt)
	}
}

func TestHasAssignee(t *testing.T) {
	t.Parallel()

	task := &Task{AssignedTo: []string{"u1", "u2"}}
	if !task.HasAssignee("u1") || !task.HasAssignee("u2") {
		t.Fatalf("expected listed ids to match")
	}
	if task.HasAssignee("u3") || task.HasAssignee("") {
		t.Fatalf("expected unlisted ids to miss")
	}
	var nilTask *Task
	if nilTask.HasAssignee("u1") {
		t.Fatalf("nil task has no assignees")
	}
}

func TestTaskAuthorization(t *testing.T) {
	t.Parallel()

	task := &Task{
		ID:         "t1",
		AssignedTo: []string{"assignee"},
		CreatedBy:  "creator",
	}
	admin := Actor{ID: "boss", Role: RoleAdmin}
	assignee := Actor{ID: "assignee", Role: RoleUser}
	creator := Actor{ID: "creator", Role: RoleUser}
	stranger := Actor{ID: "stranger", Role: RoleUser}

	cases := []struct {
		name                      string
		actor                     Actor
		canView, canStatus, canPurge bool
	}{
		{"admin", admin, true, true, false},
		{"assignee", assignee, true, true, false},
		{"creator", creator, true, false, true},
		{"stranger", stranger, false, false, false},
	}
	for _, tc := range cases {
		if got := CanViewTask(task, tc.actor); got != tc.canView {
			t.Fatalf("%s: CanViewTask = %v, want %v", tc.name, got, tc.canView)
		}
		if got := CanMutateTaskStatus(task, tc.actor); got != tc.canStatus {
			t.Fatalf("%s: CanMutateTaskStatus = %v, want %v", tc.name, got, tc.canStatus)
		}
		if got := CanPurgeTask(task, tc.actor); got != tc.canPurge {
			t.Fatalf("%s: CanPurgeTask = %v, want %v", tc.name, got, tc.canPurge)
		}
	}

	if CanViewTask(nil, admin) || CanMutateTaskStatus(nil, admin) || CanPurgeTask(nil, creator) {
		t.Fatalf("nil task must deny everything")
	}
}

func TestNotificationRecipient(t *testing.T) {
	t.Parallel()

	single := &Notification{AssignedTo: []string{"u1"}}
	if single.Recipient() != "u1" {
		t.Fatalf("expected u1, got %q", single.Recipient())
	}

	for _, malformed := range []*Notification{
		nil,
		{},
		{AssignedTo: []string{"u1", "u2"}},
	} {
		if malformed.Recipient() != "" {
			t.Fatalf("malformed record %+v must have no recipient", malformed)
		}
	}
}

func TestConversationKeyIsCanonical(t *testing.T) {
	t.Parallel()

	ab := ConversationKey("alice", "bob")
	ba := ConversationKey("bob", "alice")
	if len(ab) != 2 || ab[0] != ba[0] || ab[1] != ba[1] {
		t.Fatalf("expected the same key for both orders, got %v and %v", ab, ba)
	}
}
