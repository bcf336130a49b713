package notify

import (
	"context"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// Resolver computes notification recipients from candidate user ids. It is
// the single place the admin-exclusion rule lives; callers never filter by
// role themselves.
type Resolver struct {
	users repository.UserRepository
}

func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// Eligible returns the subset of candidates that should receive task
// lifecycle notifications: every candidate the directory knows whose role
// is not admin. Candidates are deduplicated and resolved with a single
// batched directory lookup. An empty input returns without touching the
// directory.
func (r *Resolver) Eligible(ctx context.Context, candidates []string) ([]string, error) {
	unique := dedupe(candidates)
	if len(unique) == 0 {
		return nil, nil
	}

	users, err := r.users.GetManyByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	eligible := make([]string, 0, len(users))
	for i := range users {
		if users[i].Role != domain.RoleAdmin {
			eligible = append(eligible, users[i].ID)
		}
	}
	return eligible, nil
}

// Admins returns every admin id in the directory. Progress-start
// notifications target this audience; the admin-exclusion rule above does
// not apply to them.
func (r *Resolver) Admins(ctx context.Context) ([]string, error) {
	admins, err := r.users.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(admins))
	for i := range admins {
		ids = append(ids, admins[i].ID)
	}
	return ids, nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
