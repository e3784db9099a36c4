package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user. Duplicate names surface as ErrNameTaken;
	// uniqueness is enforced by the store, not by a prior existence check,
	// so two concurrent registrations of the same name cannot both succeed.
	Create(ctx context.Context, name, password string) error
	// MatchCredentials returns the number of users matching both fields
	// exactly. The caller decides what more than one match means.
	MatchCredentials(ctx context.Context, name, password string) (int64, error)
	// DeleteWithTasks removes all of the user's tasks and then the user
	// record in one transaction, returning the number of tasks removed.
	// A missing user rolls everything back with ErrNoUser.
	DeleteWithTasks(ctx context.Context, name string) (int64, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) Create(ctx context.Context, name, password string) error {
	const q = `INSERT INTO users (name, password) VALUES ($1,$2)`
	if _, err := r.db.Exec(ctx, q, name, password); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrNameTaken
		}
		return err
	}
	return nil
}

func (r *PgUserRepository) MatchCredentials(ctx context.Context, name, password string) (int64, error) {
	const q = `SELECT COUNT(*) FROM users WHERE name=$1 AND password=$2`
	var n int64
	if err := r.db.QueryRow(ctx, q, name, password).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PgUserRepository) DeleteWithTasks(ctx context.Context, name string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// A user may own zero tasks, so this step is "at most N rows".
	tasksTag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE owner_name=$1`, name)
	if err != nil {
		return 0, err
	}

	userTag, err := tx.Exec(ctx, `DELETE FROM users WHERE name=$1`, name)
	if err != nil {
		return 0, err
	}
	if userTag.RowsAffected() == 0 {
		return 0, ErrNoUser
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tasksTag.RowsAffected(), nil
}
