package task

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
	"github.com/taskhive/backend/usecase/notify"
)

type fakeTaskRepo struct {
	mu     sync.RWMutex
	nextID int
	tasks  map[string]domain.Task

	failUpdate error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]domain.Task)}
}

func cloneTask(t domain.Task) domain.Task {
	out := t
	out.AssignedTo = append([]string(nil), t.AssignedTo...)
	if t.DeletedAt != nil {
		at := *t.DeletedAt
		out.DeletedAt = &at
	}
	return out
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, task := range r.tasks {
		if task.IsDeleted != filter.InTrash {
			continue
		}
		if filter.CreatedBy != "" && task.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if !containsAll(task.AssignedTo, filter.AssignedTo) {
			continue
		}
		out = append(out, cloneTask(task))
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func containsAll(haystack, needles []string) bool {
	for _, needle := range needles {
		found := false
		for _, item := range haystack {
			if item == needle {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == "" {
		r.nextID++
		task.ID = "task-" + strconv.Itoa(r.nextID)
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = cloneTask(*task)
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) DeleteMany(_ context.Context, filter repository.TaskFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, task := range r.tasks {
		if task.IsDeleted != filter.InTrash {
			continue
		}
		if filter.CreatedBy != "" && task.CreatedBy != filter.CreatedBy {
			continue
		}
		delete(r.tasks, id)
		count++
	}
	return count, nil
}

type fakeUserRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User

	batchCalls int
	failLookup error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := user
	return &out, nil
}

func (r *fakeUserRepo) GetManyByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.Lock()
	r.batchCalls++
	r.mu.Unlock()
	if r.failLookup != nil {
		return nil, r.failLookup
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role string) ([]domain.User, error) {
	if r.failLookup != nil {
		return nil, r.failLookup
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

// capturingDispatcher records every dispatched draft.
type capturingDispatcher struct {
	mu     sync.Mutex
	drafts []notify.Draft
}

func (d *capturingDispatcher) Dispatch(_ context.Context, drafts []notify.Draft) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drafts = append(d.drafts, drafts...)
}

func (d *capturingDispatcher) all() []notify.Draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Draft(nil), d.drafts...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []usecase.ActivityEntry
	fail    error
}

func (r *fakeRecorder) Record(_ context.Context, entry usecase.ActivityEntry) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

var errStoreDown = errors.New("store unavailable")
