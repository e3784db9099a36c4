package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Task is the client-facing projection of a stored task. DueDate travels as
// YYYY-MM-DD.
type Task struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

const dueDateLayout = "2006-01-02"

// TaskRepository defines owner-scoped persistence operations for tasks.
// Update and Delete are conditional single statements keyed on both id and
// owner, so the ownership check and the mutation cannot race against each
// other; a false return means "no such task for this owner".
type TaskRepository interface {
	Create(ctx context.Context, owner, title string, dueDate time.Time) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]Task, error)
	UpdateOwned(ctx context.Context, owner string, id int64, title string, dueDate time.Time) (bool, error)
	DeleteOwned(ctx context.Context, owner string, id int64) (bool, error)
}

// PgTaskRepository implements TaskRepository using pgxpool.
type PgTaskRepository struct {
	db *pgxpool.Pool
}

func NewPgTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{db: db}
}

func (r *PgTaskRepository) Create(ctx context.Context, owner, title string, dueDate time.Time) (int64, error) {
	const q = `INSERT INTO tasks (owner_name, title, due_date) VALUES ($1,$2,$3) RETURNING id`
	var id int64
	if err := r.db.QueryRow(ctx, q, owner, title, dueDate).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PgTaskRepository) ListByOwner(ctx context.Context, owner string) ([]Task, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, title, due_date
FROM tasks
WHERE owner_name=$1
ORDER BY id
`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Task, 0)
	for rows.Next() {
		var t Task
		var due time.Time
		if err := rows.Scan(&t.ID, &t.Title, &due); err != nil {
			return nil, err
		}
		t.DueDate = due.Format(dueDateLayout)
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PgTaskRepository) UpdateOwned(ctx context.Context, owner string, id int64, title string, dueDate time.Time) (bool, error) {
	const q = `UPDATE tasks SET title=$1, due_date=$2 WHERE id=$3 AND owner_name=$4`
	tag, err := r.db.Exec(ctx, q, title, dueDate, id, owner)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgTaskRepository) DeleteOwned(ctx context.Context, owner string, id int64) (bool, error) {
	const q = `DELETE FROM tasks WHERE id=$1 AND owner_name=$2`
	tag, err := r.db.Exec(ctx, q, id, owner)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
