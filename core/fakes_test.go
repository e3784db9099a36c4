package core

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var errFakeStore = errors.New("fake store failure")

type fakeTask struct {
	owner string
	title string
	due   time.Time
}

// fakeTaskRepo is an in-memory TaskRepository with the same conditional
// mutation semantics as the SQL implementation.
type fakeTaskRepo struct {
	mu      sync.Mutex
	nextID  int64
	tasks   map[int64]fakeTask
	failAll bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]fakeTask{}}
}

func (r *fakeTaskRepo) Create(ctx context.Context, owner, title string, dueDate time.Time) (int64, error) {
	if r.failAll {
		return 0, errFakeStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.tasks[r.nextID] = fakeTask{owner: owner, title: title, due: dueDate}
	return r.nextID, nil
}

func (r *fakeTaskRepo) ListByOwner(ctx context.Context, owner string) ([]Task, error) {
	if r.failAll {
		return nil, errFakeStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Task, 0)
	for id, t := range r.tasks {
		if t.owner == owner {
			items = append(items, Task{ID: id, Title: t.title, DueDate: t.due.Format(dueDateLayout)})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeTaskRepo) UpdateOwned(ctx context.Context, owner string, id int64, title string, dueDate time.Time) (bool, error) {
	if r.failAll {
		return false, errFakeStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.owner != owner {
		return false, nil
	}
	t.title = title
	t.due = dueDate
	r.tasks[id] = t
	return true, nil
}

func (r *fakeTaskRepo) DeleteOwned(ctx context.Context, owner string, id int64) (bool, error) {
	if r.failAll {
		return false, errFakeStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.owner != owner {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *fakeTaskRepo) countByOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if t.owner == owner {
			n++
		}
	}
	return n
}

// fakeUserRepo is an in-memory UserRepository enforcing name uniqueness under
// lock, like the primary-key constraint does in the SQL implementation.
type fakeUserRepo struct {
	mu            sync.Mutex
	users         map[string]string
	taskRepo      *fakeTaskRepo
	failAll       bool
	forcedMatches int64
	forceMatches  bool
}

func newFakeUserRepo(taskRepo *fakeTaskRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[string]string{}, taskRepo: taskRepo}
}

func (r *fakeUserRepo) Create(ctx context.Context, name, password string) error {
	if r.failAll {
		return errFakeStore
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[name]; exists {
		return ErrNameTaken
	}
	r.users[name] = password
	return nil
}

func (r *fakeUserRepo) MatchCredentials(ctx context.Context, name, password string) (int64, error) {
	if r.failAll {
		return 0, errFakeStore
	}
	if r.forceMatches {
		return r.forcedMatches, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.users[name]; ok && stored == password {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) DeleteWithTasks(ctx context.Context, name string) (int64, error) {
	if r.failAll {
		return 0, errFakeStore
	}
	r.mu.Lock()
	if _, ok := r.users[name]; !ok {
		r.mu.Unlock()
		return 0, ErrNoUser
	}
	delete(r.users, name)
	r.mu.Unlock()

	var removed int64
	if r.taskRepo != nil {
		r.taskRepo.mu.Lock()
		for id, t := range r.taskRepo.tasks {
			if t.owner == name {
				delete(r.taskRepo.tasks, id)
				removed++
			}
		}
		r.taskRepo.mu.Unlock()
	}
	return removed, nil
}

func (r *fakeUserRepo) hasUser(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[name]
	return ok
}
