package repository

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS "Todo" (
	"id"        TEXT PRIMARY KEY,
	"title"     TEXT NOT NULL,
	"done"      BOOLEAN NOT NULL DEFAULT false,
	"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	`CREATE INDEX IF NOT EXISTS "Todo_createdAt_idx" ON "Todo" ("createdAt" DESC);`,
}

// DATETIME is required for the sqlite driver to scan the column back into time.Time.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "Todo" (
	"id"        TEXT PRIMARY KEY,
	"title"     TEXT NOT NULL,
	"done"      BOOLEAN NOT NULL DEFAULT 0,
	"createdAt" DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`CREATE INDEX IF NOT EXISTS "Todo_createdAt_idx" ON "Todo" ("createdAt" DESC);`,
}

// EnsureSchema creates the "Todo" table and its index when missing.
func (r *TodoRepository) EnsureSchema(ctx context.Context) error {
	stmts := postgresSchema
	if r.db.DriverName() == "sqlite" {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure todo schema: %w", err)
		}
	}
	return nil
}
