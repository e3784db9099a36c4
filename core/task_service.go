package core

import (
	"context"
	"strings"
	"time"
)

// TaskService implements the owner-scoped task operations. Every call takes
// the owner resolved by the auth gate; a client-supplied user name is never
// trusted. Update and Delete report ErrTaskNotFound both for absent tasks and
// for tasks owned by someone else, so task-id ownership cannot be probed.
type TaskService struct {
	tasks TaskRepository
}

func NewTaskService(tasks TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// Create inserts a new task for owner. Empty title or a missing/malformed
// due date fails with ErrMissingFields.
func (s *TaskService) Create(ctx context.Context, owner, title, dueDate string) (int64, error) {
	due, err := parseTaskFields(title, dueDate)
	if err != nil {
		return 0, err
	}

	id, err := s.tasks.Create(ctx, owner, strings.TrimSpace(title), due)
	if err != nil {
		return 0, storeFault(err)
	}
	return id, nil
}

// List returns all tasks owned by owner, ordered by id. A fresh account gets
// an empty list, not null.
func (s *TaskService) List(ctx context.Context, owner string) ([]Task, error) {
	items, err := s.tasks.ListByOwner(ctx, owner)
	if err != nil {
		return nil, storeFault(err)
	}
	return items, nil
}

// Update applies title and due date to the task in a single conditional
// statement keyed on id and owner, so the ownership check and the mutation
// cannot be interleaved with a concurrent change.
func (s *TaskService) Update(ctx context.Context, owner string, id int64, title, dueDate string) error {
	due, err := parseTaskFields(title, dueDate)
	if err != nil {
		return err
	}

	ok, err := s.tasks.UpdateOwned(ctx, owner, id, strings.TrimSpace(title), due)
	if err != nil {
		return storeFault(err)
	}
	if !ok {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes the task under the same conditional contract as Update.
// Deleting an already-deleted id reports ErrTaskNotFound, never a second
// success.
func (s *TaskService) Delete(ctx context.Context, owner string, id int64) error {
	ok, err := s.tasks.DeleteOwned(ctx, owner, id)
	if err != nil {
		return storeFault(err)
	}
	if !ok {
		return ErrTaskNotFound
	}
	return nil
}

func parseTaskFields(title, dueDate string) (time.Time, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(dueDate) == "" {
		return time.Time{}, ErrMissingFields
	}
	due, err := time.Parse(dueDateLayout, dueDate)
	if err != nil {
		return time.Time{}, ErrMissingFields
	}
	return due, nil
}
