package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users and tasks tables when they do not exist.
// It is idempotent and runs once at startup. The users primary key is the
// uniqueness constraint registration relies on; the tasks owner reference
// backs the owner-scoped conditional mutations.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	const usersQ = `
CREATE TABLE IF NOT EXISTS users (
    name     TEXT PRIMARY KEY,
    password TEXT NOT NULL
)`
	const tasksQ = `
CREATE TABLE IF NOT EXISTS tasks (
    id         BIGSERIAL PRIMARY KEY,
    owner_name TEXT NOT NULL REFERENCES users(name),
    title      TEXT NOT NULL,
    due_date   DATE NOT NULL
)`

	if _, err := db.Exec(ctx, usersQ); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, tasksQ); err != nil {
		return err
	}
	return nil
}
