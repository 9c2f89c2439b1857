package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const maxInsertAttempts = 5

// TodoRepository handles SQL operations for todo items.
// Queries are written with ? placeholders and rebound for the active driver.
type TodoRepository struct {
	db    *sqlx.DB
	now   func() time.Time
	newID func() string
}

// Option customises a TodoRepository.
type Option func(*TodoRepository)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(r *TodoRepository) { r.now = now }
}

// WithIDGenerator overrides the id source used on insert.
func WithIDGenerator(newID func() string) Option {
	return func(r *TodoRepository) { r.newID = newID }
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *sqlx.DB, opts ...Option) *TodoRepository {
	r := &TodoRepository{
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every item, newest first.
func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	const q = `
SELECT "id", "title", "done", "createdAt"
FROM "Todo"
ORDER BY "createdAt" DESC;
`
	out := make([]domain.Todo, 0, 16)
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q)); err != nil {
		return nil, storageErr(ctx, "list", err)
	}
	if out == nil {
		out = []domain.Todo{}
	}
	return out, nil
}

// Get returns a single item by id.
func (r *TodoRepository) Get(ctx context.Context, id string) (*domain.Todo, error) {
	const q = `
SELECT "id", "title", "done", "createdAt"
FROM "Todo"
WHERE "id" = ?;
`
	var t domain.Todo
	if err := r.db.GetContext(ctx, &t, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr(ctx, "get", err)
	}
	return &t, nil
}

// Insert stores a new item with a server-generated id, done=false and createdAt=now.
func (r *TodoRepository) Insert(ctx context.Context, title string) (*domain.Todo, error) {
	const q = `
INSERT INTO "Todo" ("id", "title", "done", "createdAt")
VALUES (?, ?, ?, ?);
`
	for i := 0; i < maxInsertAttempts; i++ {
		t := domain.Todo{
			ID:        r.newID(),
			Title:     title,
			Done:      false,
			CreatedAt: ceilMicro(r.now().UTC()),
		}

		_, err := r.db.ExecContext(ctx, r.db.Rebind(q), t.ID, t.Title, t.Done, t.CreatedAt)
		if err == nil {
			return &t, nil
		}

		// primary key collision → retry with a fresh id
		if isUniqueViolation(err) {
			continue
		}
		return nil, storageErr(ctx, "insert", err)
	}

	return nil, &domain.StorageError{
		Op:  "insert",
		Err: fmt.Errorf("failed to generate unique todo id after %d attempts", maxInsertAttempts),
	}
}

// SetDone updates the done flag of one item. Zero affected rows yields domain.ErrNotFound.
func (r *TodoRepository) SetDone(ctx context.Context, id string, done bool) error {
	const q = `
UPDATE "Todo"
SET "done" = ?
WHERE "id" = ?;
`
	return r.execOne(ctx, "set_done", r.db.Rebind(q), done, id)
}

// Delete removes one item. Zero affected rows yields domain.ErrNotFound.
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	const q = `
DELETE FROM "Todo"
WHERE "id" = ?;
`
	return r.execOne(ctx, "delete", r.db.Rebind(q), id)
}

// Count returns the number of stored items and how many of them are done.
func (r *TodoRepository) Count(ctx context.Context) (domain.Counts, error) {
	const q = `
SELECT COUNT(*) AS "total",
       COALESCE(SUM(CASE WHEN "done" THEN 1 ELSE 0 END), 0) AS "done"
FROM "Todo";
`
	var c domain.Counts
	if err := r.db.GetContext(ctx, &c, q); err != nil {
		return domain.Counts{}, storageErr(ctx, "count", err)
	}
	return c, nil
}

// Ping checks connectivity of the underlying pool.
func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *TodoRepository) execOne(ctx context.Context, op, q string, args ...any) error {
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return storageErr(ctx, op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// storageErr wraps a driver failure. Drivers that cancel server-side (lib/pq
// answers 57014) do not wrap the context error, so it is joined in here.
func storageErr(ctx context.Context, op string, err error) *domain.StorageError {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = errors.Join(err, ctxErr)
	}
	return &domain.StorageError{Op: op, Err: err}
}

// ceilMicro rounds up to the microsecond precision of both stores, so a stored
// createdAt is never earlier than the moment of the call.
func ceilMicro(t time.Time) time.Time {
	if tr := t.Truncate(time.Microsecond); tr.Before(t) {
		return tr.Add(time.Microsecond)
	}
	return t
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// primary code only when extended result codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
